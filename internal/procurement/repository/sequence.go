package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// NextSeq 按前缀取流水号。code_sequences每个前缀一行，
// UPSERT原子递增，并发取号不会重号也不会跳号
func NextSeq(ctx context.Context, db *gorm.DB, prefix string) (int64, error) {
	var seq int64
	err := db.WithContext(ctx).Raw(`
		INSERT INTO code_sequences (prefix, last_seq, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (prefix)
		DO UPDATE SET last_seq = code_sequences.last_seq + 1, updated_at = NOW()
		RETURNING last_seq`, prefix).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// NextCode 生成 前缀+4位流水 的业务单号
func NextCode(ctx context.Context, db *gorm.DB, prefix string) (string, error) {
	seq, err := NextSeq(ctx, db, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}
