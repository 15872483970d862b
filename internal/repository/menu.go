package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/uma-arai/sbcntr-dining-batch/internal/model"
)

// MenuRepository はメニュー情報の読み取りを担当するインターフェースです
type MenuRepository interface {
	ListAvailable(ctx context.Context) ([]model.MenuItem, error)
}

// MenuRepositoryImpl はMenuRepositoryの実装です
type MenuRepositoryImpl struct {
	db *DB
}

// NewMenuRepository は新しいMenuRepositoryを作成します
func NewMenuRepository(db *DB) *MenuRepositoryImpl {
	return &MenuRepositoryImpl{
		db: db,
	}
}

// ListAvailable は提供中のメニュー項目を取得します
func (r *MenuRepositoryImpl) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "MenuRepository.ListAvailable")
	defer seg.Close(nil)

	query := `
		SELECT id, name, price, available
		FROM menu_items
		WHERE available = TRUE
		ORDER BY id`

	items := make([]model.MenuItem, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		seg.Close(err)
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}

	return items, nil
}
