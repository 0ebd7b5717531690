package model

import "time"

// UploadedDocument points at a vector store registered for one uploaded PDF.
// Records are created once and never updated.
type UploadedDocument struct {
	ID            string    `gorm:"primaryKey;size:64" bson:"_id,omitempty" json:"-"`
	FileName      string    `gorm:"size:512;not null" bson:"file_name" json:"file_name"`
	VectorStoreID string    `gorm:"size:128;not null;index" bson:"vector_store_id" json:"vector_store_id"`
	FileID        string    `gorm:"size:128" bson:"file_id,omitempty" json:"-"`
	PageCount     int       `bson:"page_count,omitempty" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"-"`
}

func (UploadedDocument) TableName() string {
	return "uploaded_documents"
}

// DocumentSummary is the projection returned by the listing endpoint.
type DocumentSummary struct {
	FileName      string `json:"file_name"`
	VectorStoreID string `json:"vector_store_id"`
}

func (d UploadedDocument) Summary() DocumentSummary {
	return DocumentSummary{FileName: d.FileName, VectorStoreID: d.VectorStoreID}
}
