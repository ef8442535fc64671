package setup

import (
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/filecheck"
	orderuc "github.com/bazaarkit/bazaar-order-service/internal/usecase/order"
	proofuc "github.com/bazaarkit/bazaar-order-service/internal/usecase/proof"
	"github.com/bazaarkit/bazaar-order-service/internal/verification"
)

type UseCases struct {
	OrderUsecase orderuc.OrderUsecase
	ProofUsecase proofuc.ProofUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	orderUsecase := orderuc.NewDefaultOrderUsecase(
		deps.Repositories.OrderRepo,
		deps.Repositories.AuditRepo,
		deps.Locker,
		deps.Dispatcher,
		deps.Publisher,
		deps.Metrics,
		deps.Config.Orders.PendingTTL,
	)

	scorer := verification.NewDefaultScorer(verification.NewTextExtractor(), verification.Config{
		AutoVerifyThreshold: deps.Config.Verification.AutoVerifyThreshold,
		RecencyWindow:       deps.Config.Verification.RecencyWindow,
		Budget:              deps.Config.Verification.Budget,
	})

	proofUsecase := proofuc.NewDefaultProofUsecase(
		deps.Repositories.ProofRepo,
		deps.Repositories.OrderRepo,
		deps.Repositories.AuditRepo,
		orderUsecase,
		scorer,
		filecheck.NewBasicValidator(),
		deps.Dispatcher,
		deps.Publisher,
		deps.Metrics,
	)

	return &UseCases{
		OrderUsecase: orderUsecase,
		ProofUsecase: proofUsecase,
	}
}
