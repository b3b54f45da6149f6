package amm

// RouterReadABI is the ABI for the V2-style router.
// Only includes getAmountsOut which we use for quotes; swap entrypoints
// belong to the execution side.
const RouterReadABI = `[
	{
		"constant": true,
		"inputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"}
		],
		"name": "getAmountsOut",
		"outputs": [
			{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}
		],
		"payable": false,
		"stateMutability": "view",
		"type": "function"
	}
]`
