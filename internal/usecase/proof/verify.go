package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/verification"
)

// ScoreProof runs the confidence pipeline for a stored artifact. An
// auto-verifiable score commits the PAID transition with the system actor;
// anything below the threshold keeps the artifact pending with its score
// attached and flags the order for manual review. Scoring a proof that was
// superseded mid-flight records nothing and changes nothing.
func (uc *DefaultProofUsecase) ScoreProof(ctx context.Context, proofID string) (*domain.VerificationResult, error) {
	if proofID == "" {
		return nil, &domain.ValidationError{Field: "proof_id", Reason: "must not be empty"}
	}

	proof, err := uc.ProofRepo.GetProofByID(ctx, proofID)
	if err != nil {
		return nil, err
	}
	if proof.Outcome != domain.ProofPending {
		return &domain.VerificationResult{
			ConfidenceScore:  proof.ConfidenceScore,
			IsAutoVerifiable: proof.Outcome == domain.ProofAutoVerified,
			FailureReason:    proof.FailureReason,
		}, nil
	}

	order, err := uc.OrderRepo.GetOrderByID(ctx, proof.OrderID)
	if err != nil {
		return nil, err
	}
	payload, err := uc.ProofRepo.GetPayload(ctx, proofID)
	if err != nil {
		return nil, err
	}

	started := uc.now()
	result := uc.Scorer.Score(ctx, payload, verification.Expectation{
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
		OrderNumber: order.OrderNumber,
	})
	elapsed := uc.now().Sub(started).Seconds()

	// An upload that arrived while we were scoring wins: its artifact is
	// now the active one and this verdict must not touch the order.
	fresh, err := uc.ProofRepo.GetProofByID(ctx, proofID)
	if err != nil {
		return nil, err
	}
	if fresh.Superseded {
		uc.Metrics.RecordVerification("superseded", result.ConfidenceScore, elapsed)
		return result, nil
	}
	if fresh.Outcome != domain.ProofPending {
		return result, nil
	}

	if result.IsAutoVerifiable {
		return uc.autoConfirm(ctx, order, proofID, result, elapsed)
	}

	if err := uc.ProofRepo.RecordOutcome(ctx, proofID, domain.ProofPending, result.ConfidenceScore, result.FailureReason); err != nil {
		return nil, err
	}
	uc.recordScoringAudit(ctx, order.ID, proofID, "needs_review", result)
	uc.Metrics.RecordVerification("needs_review", result.ConfidenceScore, elapsed)

	if uc.Dispatcher != nil && order.CustomerChannel != "" {
		uc.Dispatcher.Notify(ctx, order.CustomerChannel, domain.TemplatePaymentNeedsReview, domain.OrderContext{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
			Currency:    order.Currency,
			Reason:      result.FailureReason,
		})
	}
	return result, nil
}

func (uc *DefaultProofUsecase) autoConfirm(ctx context.Context, order *domain.Order, proofID string, result *domain.VerificationResult, elapsed float64) (*domain.VerificationResult, error) {
	_, err := uc.Orders.ConfirmPayment(ctx, order.ID, domain.ActorSystem, map[string]string{
		"proof_id":         proofID,
		"via":              "auto_verification",
		"confidence_score": strconv.FormatFloat(result.ConfidenceScore, 'f', 4, 64),
	})
	if err != nil {
		// The admin decided first. The verdict stands as pending evidence.
		var invalidTransition *domain.InvalidTransitionError
		if errors.As(err, &invalidTransition) {
			slog.Info("auto-verification lost the race to a concurrent decision",
				slog.String("order_id", order.ID),
				slog.String("proof_id", proofID))
			uc.Metrics.RecordVerification("race_lost", result.ConfidenceScore, elapsed)
			return result, nil
		}
		return nil, err
	}

	if err := uc.ProofRepo.RecordOutcome(ctx, proofID, domain.ProofAutoVerified, result.ConfidenceScore, ""); err != nil {
		return nil, err
	}
	uc.recordScoringAudit(ctx, order.ID, proofID, string(domain.ProofAutoVerified), result)
	uc.Metrics.RecordVerification("auto_verified", result.ConfidenceScore, elapsed)
	return result, nil
}

// ResolveActiveProof records the admin's verdict on the order's active
// pending artifact after a manual confirm or reject. Orders without a
// pending artifact are a no-op.
func (uc *DefaultProofUsecase) ResolveActiveProof(ctx context.Context, orderID string, verified bool, reason string) error {
	proof, err := uc.ProofRepo.GetActiveProof(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrProofNotFound) {
			return nil
		}
		return err
	}
	if proof.Outcome != domain.ProofPending {
		return nil
	}
	outcome := domain.ProofManuallyVerified
	if !verified {
		outcome = domain.ProofRejected
	}
	return uc.ProofRepo.RecordOutcome(ctx, proof.ID, outcome, proof.ConfidenceScore, reason)
}

func (uc *DefaultProofUsecase) recordScoringAudit(ctx context.Context, orderID, proofID, verdict string, result *domain.VerificationResult) {
	err := uc.AuditRepo.Record(ctx, &domain.AuditRecord{
		OrderID: orderID,
		Action:  domain.ActionProofScored,
		Actor:   domain.ActorSystem,
		Metadata: map[string]string{
			"proof_id": proofID,
			"verdict":  verdict,
			"score":    strconv.FormatFloat(result.ConfidenceScore, 'f', 4, 64),
		},
		CreatedAt: uc.now(),
	})
	if err != nil {
		slog.Error("failed to record proof scoring",
			slog.String("order_id", orderID),
			slog.String("proof_id", proofID),
			slog.Any("error", err))
	}
}
