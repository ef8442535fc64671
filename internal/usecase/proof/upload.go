package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	publisher "github.com/bazaarkit/bazaar-order-service/internal/infrastructure/kafka"
	proofdto "github.com/bazaarkit/bazaar-order-service/internal/usecase/dto/proof"
)

var newStorageRef = func() func() string {
	gen, err := nanoid.Standard(21)
	if err != nil {
		panic(err)
	}
	return gen
}()

// UploadPaymentProof accepts a payment evidence file for an order awaiting
// confirmation. The new artifact supersedes any previously active one, and
// scoring starts in the background once the artifact is stored. Uploads are
// refused after the order leaves PENDING_ADMIN.
func (uc *DefaultProofUsecase) UploadPaymentProof(ctx context.Context, input *proofdto.UploadProofInput) (*domain.ProofRef, error) {
	if input.OrderID == "" {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "must not be empty"}
	}
	if len(input.Payload) == 0 {
		return nil, &domain.ValidationError{Field: "payload", Reason: "must not be empty"}
	}

	order, err := uc.OrderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusPendingAdmin {
		uc.Metrics.RecordProofUpload("closed")
		return nil, domain.ErrProofUploadClosed
	}

	verdict, err := uc.Validator.Validate(ctx, input.Payload, input.Filename)
	if err != nil {
		uc.Metrics.RecordProofUpload("validator_error")
		return nil, domain.NewTransientInfraError("validate proof file", err)
	}
	if !verdict.IsValid {
		uc.Metrics.RecordProofUpload("rejected")
		return nil, &domain.ValidationError{Field: "file", Reason: verdict.Reason}
	}

	filename := verdict.SanitizedFilename
	if filename == "" {
		filename = input.Filename
	}
	proof := &domain.ProofArtifact{
		ID:         uuid.New().String(),
		OrderID:    order.ID,
		StorageRef: "proof_" + newStorageRef(),
		Filename:   filename,
		MimeType:   verdict.DetectedMimeType,
		Outcome:    domain.ProofPending,
		UploadedAt: uc.now(),
	}

	if err := uc.ProofRepo.CreateProof(ctx, proof, input.Payload); err != nil {
		uc.Metrics.RecordProofUpload("store_error")
		return nil, err
	}
	if err := uc.OrderRepo.SetActiveProof(ctx, order.ID, proof.ID); err != nil {
		return nil, err
	}

	if err := uc.AuditRepo.Record(ctx, &domain.AuditRecord{
		OrderID: order.ID,
		Action:  domain.ActionProofUploaded,
		Actor:   order.CustomerID,
		Metadata: map[string]string{
			"proof_id":    proof.ID,
			"storage_ref": proof.StorageRef,
		},
		CreatedAt: proof.UploadedAt,
	}); err != nil {
		slog.Error("failed to record proof upload",
			slog.String("order_id", order.ID),
			slog.String("proof_id", proof.ID),
			slog.Any("error", err))
	}

	uc.Metrics.RecordProofUpload("accepted")
	uc.publishProofEvent(proof)

	if uc.ScoreOnUpload {
		go func() {
			if _, err := uc.ScoreProof(context.Background(), proof.ID); err != nil {
				slog.Error("background proof scoring failed",
					slog.String("proof_id", proof.ID),
					slog.Any("error", err))
			}
		}()
	}

	return &domain.ProofRef{
		ProofID:    proof.ID,
		OrderID:    proof.OrderID,
		StorageRef: proof.StorageRef,
	}, nil
}

func (uc *DefaultProofUsecase) publishProofEvent(proof *domain.ProofArtifact) {
	if uc.Publisher == nil {
		return
	}
	event := publisher.ProofEvent{
		ProofID:         proof.ID,
		OrderID:         proof.OrderID,
		StorageRef:      proof.StorageRef,
		Outcome:         string(proof.Outcome),
		ConfidenceScore: proof.ConfidenceScore,
	}
	go func() {
		if err := uc.Publisher.PublishProof(event); err != nil {
			slog.Error("failed to publish proof event",
				slog.String("proof_id", event.ProofID),
				slog.Any("error", err))
		}
	}()
}
