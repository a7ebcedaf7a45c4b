package credential

import (
	"time"
)

// BlobModel represents one durable key-value entry. Tokens and organization
// config live under independent keys; there is no multi-key transaction.
type BlobModel struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Namespace string `json:"namespace" gorm:"column:namespace;uniqueIndex:idx_namespace_key;not null;size:64"`
	Key       string `json:"key" gorm:"column:blob_key;uniqueIndex:idx_namespace_key;not null;size:64"`
	Value     []byte `json:"value" gorm:"column:value;type:blob"`
}

// TableName sets the table name for GORM
func (BlobModel) TableName() string {
	return "credential_blobs"
}
