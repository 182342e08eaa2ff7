package entity

import "time"

// CodeSequence 单号序列，每个前缀一行，流水号通过原子UPSERT递增
type CodeSequence struct {
	Prefix    string    `json:"prefix" gorm:"primaryKey;size:32"`
	LastSeq   int64     `json:"last_seq" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CodeSequence) TableName() string {
	return "code_sequences"
}
