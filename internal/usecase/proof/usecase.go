package usecase

import (
	"context"
	"time"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	publisher "github.com/bazaarkit/bazaar-order-service/internal/infrastructure/kafka"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/metrics"
	proofdto "github.com/bazaarkit/bazaar-order-service/internal/usecase/dto/proof"
	"github.com/bazaarkit/bazaar-order-service/internal/verification"
)

type ProofUsecase interface {
	UploadPaymentProof(ctx context.Context, input *proofdto.UploadProofInput) (*domain.ProofRef, error)
	ScoreProof(ctx context.Context, proofID string) (*domain.VerificationResult, error)
	ResolveActiveProof(ctx context.Context, orderID string, verified bool, reason string) error
	GetProofByID(ctx context.Context, proofID string) (*domain.ProofArtifact, error)
	ListProofsByOrder(ctx context.Context, orderID string) ([]*domain.ProofArtifact, error)
}

// PaymentConfirmer is the slice of the order lifecycle the verification
// pipeline needs: committing the PAID transition after an auto-approved
// proof.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, orderID, actor string, metadata map[string]string) (*domain.Order, error)
}

type ProofEventPublisher interface {
	PublishProof(event publisher.ProofEvent) error
}

type Notifier interface {
	Notify(ctx context.Context, channelID string, template domain.NotificationTemplate, octx domain.OrderContext) domain.DeliveryResult
}

type DefaultProofUsecase struct {
	ProofRepo  domain.ProofRepository
	OrderRepo  domain.OrderRepository
	AuditRepo  domain.AuditRepository
	Orders     PaymentConfirmer
	Scorer     verification.Scorer
	Validator  domain.FileValidator
	Dispatcher Notifier
	Publisher  ProofEventPublisher
	Metrics    *metrics.OrderMetrics

	// ScoreOnUpload launches scoring in the background right after a
	// successful upload. Disable to drive scoring explicitly.
	ScoreOnUpload bool

	now func() time.Time
}

func NewDefaultProofUsecase(
	proofRepo domain.ProofRepository,
	orderRepo domain.OrderRepository,
	auditRepo domain.AuditRepository,
	orders PaymentConfirmer,
	scorer verification.Scorer,
	validator domain.FileValidator,
	dispatcher Notifier,
	eventPublisher ProofEventPublisher,
	orderMetrics *metrics.OrderMetrics) *DefaultProofUsecase {

	return &DefaultProofUsecase{
		ProofRepo:     proofRepo,
		OrderRepo:     orderRepo,
		AuditRepo:     auditRepo,
		Orders:        orders,
		Scorer:        scorer,
		Validator:     validator,
		Dispatcher:    dispatcher,
		Publisher:     eventPublisher,
		Metrics:       orderMetrics,
		ScoreOnUpload: true,
		now:           time.Now,
	}
}

func (uc *DefaultProofUsecase) GetProofByID(ctx context.Context, proofID string) (*domain.ProofArtifact, error) {
	if proofID == "" {
		return nil, &domain.ValidationError{Field: "proof_id", Reason: "must not be empty"}
	}
	return uc.ProofRepo.GetProofByID(ctx, proofID)
}

func (uc *DefaultProofUsecase) ListProofsByOrder(ctx context.Context, orderID string) ([]*domain.ProofArtifact, error) {
	if orderID == "" {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "must not be empty"}
	}
	if _, err := uc.OrderRepo.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.ProofRepo.ListByOrder(ctx, orderID)
}
