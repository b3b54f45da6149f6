// Package di contains dependency injection tokens for the execution context.
package di

import (
	"github.com/fbellman/swapdesk/business/execution/app"
	infra "github.com/fbellman/swapdesk/business/execution/infra/ethereum"
	"github.com/fbellman/swapdesk/internal/di"
)

// Public service tokens - exposed to other modules
var (
	TradeExecutor = di.NewToken[*app.TradeExecutor]("execution.TradeExecutor")
	GasPolicy     = di.NewToken[app.GasPolicy]("execution.GasPolicy")
	HeadWatcher   = di.NewToken[*infra.HeadWatcher]("execution.HeadWatcher")
	Signer        = di.NewToken[app.Signer]("execution.Signer")
)

// Private dependency tokens - internal to execution module
var (
	SwapEncoder     = di.NewToken[app.SwapEncoder]("execution:swapEncoder")
	ChainReader     = di.NewToken[app.ChainReader]("execution:chainReader")
	TxSubmitter     = di.NewToken[app.TxSubmitter]("execution:txSubmitter")
	NonceCoord      = di.NewToken[app.NonceCoordinator]("execution:nonceCoordinator")
	AllowanceReader = di.NewToken[app.AllowanceReader]("execution:allowanceReader")
	TxSender        = di.NewToken[*app.TxSender]("execution:txSender")
	Approvals       = di.NewToken[*app.ApprovalCoordinator]("execution:approvals")
)

// Helper functions for type-safe access
func GetTradeExecutor(c di.ServiceRegistry) *app.TradeExecutor {
	return di.GetToken(c, TradeExecutor)
}

func GetGasPolicy(c di.ServiceRegistry) app.GasPolicy {
	return di.GetToken(c, GasPolicy)
}

func GetHeadWatcher(c di.ServiceRegistry) *infra.HeadWatcher {
	return di.GetToken(c, HeadWatcher)
}

func GetSigner(c di.ServiceRegistry) app.Signer {
	return di.GetToken(c, Signer)
}

func GetSwapEncoder(c di.ServiceRegistry) app.SwapEncoder {
	return di.GetToken(c, SwapEncoder)
}

func GetChainReader(c di.ServiceRegistry) app.ChainReader {
	return di.GetToken(c, ChainReader)
}

func GetTxSubmitter(c di.ServiceRegistry) app.TxSubmitter {
	return di.GetToken(c, TxSubmitter)
}

func GetNonceCoordinator(c di.ServiceRegistry) app.NonceCoordinator {
	return di.GetToken(c, NonceCoord)
}

func GetAllowanceReader(c di.ServiceRegistry) app.AllowanceReader {
	return di.GetToken(c, AllowanceReader)
}

func GetTxSender(c di.ServiceRegistry) *app.TxSender {
	return di.GetToken(c, TxSender)
}

func GetApprovals(c di.ServiceRegistry) *app.ApprovalCoordinator {
	return di.GetToken(c, Approvals)
}
