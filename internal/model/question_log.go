package model

import "time"

// QuestionLog records one answered question against a vector store.
type QuestionLog struct {
	ID            string    `gorm:"primaryKey;size:64" bson:"_id,omitempty" json:"id"`
	VectorStoreID string    `gorm:"size:128;not null;index" bson:"vector_store_id" json:"vector_store_id"`
	ThreadID      string    `gorm:"size:128" bson:"thread_id" json:"thread_id"`
	RunID         string    `gorm:"size:128" bson:"run_id" json:"run_id"`
	Question      string    `gorm:"type:text;not null" bson:"question" json:"question"`
	Answer        string    `gorm:"type:text" bson:"answer" json:"answer"`
	CreatedAt     time.Time `gorm:"index" bson:"created_at" json:"created_at"`
}

func (QuestionLog) TableName() string {
	return "question_logs"
}
