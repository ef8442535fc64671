package mappers

import (
	"encoding/json"

	"github.com/bazaarkit/bazaar-order-service/internal/domain"
	"github.com/bazaarkit/bazaar-order-service/internal/infrastructure/postgres/models"
)

func ToDomainProof(model *models.ProofModel) *domain.ProofArtifact {
	return &domain.ProofArtifact{
		ID:              model.ID,
		OrderID:         model.OrderID,
		StorageRef:      model.StorageRef,
		Filename:        model.Filename,
		MimeType:        model.MimeType,
		Outcome:         model.Outcome,
		ConfidenceScore: model.ConfidenceScore,
		FailureReason:   model.FailureReason,
		Superseded:      model.Superseded,
		UploadedAt:      model.UploadedAt,
	}
}

func ToGORMProof(proof *domain.ProofArtifact, payload []byte) *models.ProofModel {
	return &models.ProofModel{
		ID:              proof.ID,
		OrderID:         proof.OrderID,
		StorageRef:      proof.StorageRef,
		Filename:        proof.Filename,
		MimeType:        proof.MimeType,
		Outcome:         proof.Outcome,
		ConfidenceScore: proof.ConfidenceScore,
		FailureReason:   proof.FailureReason,
		Superseded:      proof.Superseded,
		Payload:         payload,
		UploadedAt:      proof.UploadedAt,
	}
}

func ToDomainAudit(model *models.AuditModel) *domain.AuditRecord {
	record := &domain.AuditRecord{
		ID:         model.ID,
		OrderID:    model.OrderID,
		Action:     model.Action,
		Actor:      model.Actor,
		FromStatus: domain.OrderStatus(model.FromStatus),
		ToStatus:   domain.OrderStatus(model.ToStatus),
		CreatedAt:  model.CreatedAt,
	}
	if model.Metadata != "" {
		_ = json.Unmarshal([]byte(model.Metadata), &record.Metadata)
	}
	return record
}

func ToGORMAudit(record *domain.AuditRecord) *models.AuditModel {
	model := &models.AuditModel{
		ID:         record.ID,
		OrderID:    record.OrderID,
		Action:     record.Action,
		Actor:      record.Actor,
		FromStatus: string(record.FromStatus),
		ToStatus:   string(record.ToStatus),
		CreatedAt:  record.CreatedAt,
	}
	if len(record.Metadata) > 0 {
		if raw, err := json.Marshal(record.Metadata); err == nil {
			model.Metadata = string(raw)
		}
	}
	return model
}
