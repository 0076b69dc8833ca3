package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wiktowice_site/internal/api/site/models"
	"wiktowice_site/internal/common"
)

// PostgresClient truy cập các bảng trên Postgres (Supabase)
type PostgresClient struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresClient tạo client từ pool đã kết nối
func NewPostgresClient(pool *pgxpool.Pool, timeout time.Duration) *PostgresClient {
	return &PostgresClient{pool: pool, timeout: timeout}
}

// Name trả về tên backend
func (p *PostgresClient) Name() string { return "postgres" }

func (p *PostgresClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// selectAllSQL trả về câu lệnh đọc cả bảng thành một mảng JSON
func selectAllSQL(table string) string {
	return fmt.Sprintf(
		"SELECT coalesce(json_agg(row_to_json(t) ORDER BY t.id), '[]'::json)::text FROM %s t",
		pgx.Identifier{table}.Sanitize(),
	)
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func fetchAll(ctx context.Context, q queryer, table string) ([]byte, error) {
	var out string
	if err := q.QueryRow(ctx, selectAllSQL(table)).Scan(&out); err != nil {
		return nil, common.ConvertPgError(err, table)
	}
	return []byte(out), nil
}

// Fetch đọc toàn bộ bảng
func (p *PostgresClient) Fetch(ctx context.Context, spec models.CollectionSpec) ([]byte, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return fetchAll(ctx, p.pool, spec.Table)
}

// insertColumns chọn các cột khai báo trong spec có mặt trong row; row không có id để database tự sinh
func insertColumns(spec models.CollectionSpec, row map[string]interface{}) ([]string, []interface{}, bool) {
	cols := make([]string, 0, len(spec.Columns))
	args := make([]interface{}, 0, len(spec.Columns))
	_, hasID := rowID(row)
	for _, col := range spec.Columns {
		v, ok := row[col]
		if !ok {
			continue
		}
		if col == "id" && !hasID {
			continue
		}
		cols = append(cols, col)
		args = append(args, normalizeValue(v))
	}
	return cols, args, hasID
}

func insertSQL(table string, cols []string) string {
	quotedTable := pgx.Identifier{table}.Sanitize()
	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", quotedTable)
	}
	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = pgx.Identifier{col}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quotedTable, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// buildInsert dựng câu INSERT thuần; id đã tồn tại thì database báo lỗi khóa chính
func buildInsert(spec models.CollectionSpec, row map[string]interface{}) (string, []interface{}) {
	cols, args, _ := insertColumns(spec, row)
	return insertSQL(spec.Table, cols), args
}

// buildUpsert dựng câu INSERT ... ON CONFLICT (id) cho một row
func buildUpsert(spec models.CollectionSpec, row map[string]interface{}) (string, []interface{}) {
	cols, args, hasID := insertColumns(spec, row)
	sql := insertSQL(spec.Table, cols)
	if !hasID || len(cols) == 0 {
		return sql, args
	}
	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		if col == "id" {
			continue
		}
		q := pgx.Identifier{col}.Sanitize()
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", q, q))
	}
	if len(updates) == 0 {
		return sql + " ON CONFLICT (id) DO NOTHING", args
	}
	return sql + " ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", "), args
}

// writeRows chạy câu lệnh của từng row trong một transaction rồi đọc lại bảng
func (p *PostgresClient) writeRows(ctx context.Context, spec models.CollectionSpec, data []byte,
	build func(models.CollectionSpec, map[string]interface{}) (string, []interface{})) ([]byte, error) {
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, common.ConvertPgError(err, spec.Table)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, row := range rows {
		sql, args := build(spec, row)
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return nil, common.ConvertPgError(err, spec.Table)
		}
	}

	out, err := fetchAll(ctx, tx, spec.Table)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, common.ConvertPgError(err, spec.Table)
	}
	return out, nil
}

// Upsert ghi toàn bộ collection theo khóa id
func (p *PostgresClient) Upsert(ctx context.Context, spec models.CollectionSpec, data []byte) ([]byte, error) {
	return p.writeRows(ctx, spec, data, buildUpsert)
}

// Insert chỉ thêm row mới, trùng id thì cả transaction thất bại
func (p *PostgresClient) Insert(ctx context.Context, spec models.CollectionSpec, data []byte) ([]byte, error) {
	return p.writeRows(ctx, spec, data, buildInsert)
}

// Delete xóa row theo id
func (p *PostgresClient) Delete(ctx context.Context, spec models.CollectionSpec, id int64) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	sql := fmt.Sprintf("DELETE FROM %s WHERE id = $1", pgx.Identifier{spec.Table}.Sanitize())
	if _, err := p.pool.Exec(ctx, sql, id); err != nil {
		return common.ConvertPgError(err, spec.Table)
	}
	return nil
}

// FetchSetting đọc system_config.value theo key
func (p *PostgresClient) FetchSetting(ctx context.Context, key string) (string, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	var value string
	sql := fmt.Sprintf("SELECT value::text FROM %s WHERE key = $1 LIMIT 1", pgx.Identifier{models.SystemConfigTable}.Sanitize())
	err := p.pool.QueryRow(ctx, sql, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", common.ConvertPgError(err, models.SystemConfigTable)
	}
	return value, nil
}
