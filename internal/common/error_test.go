package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var appErr *Error
	require.True(t, errors.As(err, &appErr), "không phải *common.Error: %v", err)
	return appErr.Code.Code
}

func TestIsMissingTable(t *testing.T) {
	t.Run("các mã lỗi thiếu bảng", func(t *testing.T) {
		for _, code := range []string{"42P01", "PGRST204", "PGRST205", "404"} {
			assert.True(t, IsMissingTable(code, "", "news"), code)
		}
	})

	t.Run("nhận diện qua message", func(t *testing.T) {
		assert.True(t, IsMissingTable("", `relation "public.bank_users" does not exist`, "bank_users"))
		assert.True(t, IsMissingTable("", `ERROR: relation "orders" does not exist (SQLSTATE 42P01)`, ""))
	})

	t.Run("lỗi khác không phải thiếu bảng", func(t *testing.T) {
		assert.False(t, IsMissingTable("23505", `duplicate key value violates unique constraint "bank_users_pkey"`, "bank_users"))
		assert.False(t, IsMissingTable("", "connection refused", "news"))
	})
}

func TestConvertPgError(t *testing.T) {
	t.Run("nil giữ nguyên", func(t *testing.T) {
		assert.NoError(t, ConvertPgError(nil, "news"))
	})

	t.Run("42P01 thành SchemaError có tên bảng", func(t *testing.T) {
		err := ConvertPgError(&pgconn.PgError{Code: "42P01", Message: `relation "public.news" does not exist`}, "news")
		assert.True(t, IsSchemaError(err))
		assert.Equal(t, ErrCodeSchemaMissing.Code, codeOf(t, err))
		assert.Contains(t, UserMessage(err), "'news'")
	})

	t.Run("PostgREST PGRST205 thành SchemaError", func(t *testing.T) {
		err := ConvertPgError(&pgconn.PgError{Code: "PGRST205", Message: "Could not find the table"}, "orders")
		assert.True(t, IsSchemaError(err))
	})

	t.Run("lỗi ràng buộc giữ message của database", func(t *testing.T) {
		err := ConvertPgError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"}, "bank_users")
		assert.True(t, IsNetworkError(err))
		assert.Equal(t, "duplicate key value", UserMessage(err))
	})

	t.Run("message dạng chuỗi cũng được nhận diện", func(t *testing.T) {
		err := ConvertPgError(fmt.Errorf(`ERROR: relation "public.orders" does not exist`), "orders")
		assert.True(t, IsSchemaError(err))
	})

	t.Run("timeout thành NetworkError tiếng Ba Lan", func(t *testing.T) {
		err := ConvertPgError(fmt.Errorf("query: %w", context.DeadlineExceeded), "news")
		assert.True(t, IsNetworkError(err))
		assert.Equal(t, "Przekroczono czas oczekiwania na bazę danych", UserMessage(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("lỗi đã phân loại đi qua nguyên vẹn", func(t *testing.T) {
		orig := NewValidationError("Zły login")
		assert.Same(t, orig, ConvertPgError(orig, "bank_users"))
	})
}

func TestConvertMongoError(t *testing.T) {
	t.Run("NamespaceNotFound thành SchemaError", func(t *testing.T) {
		err := ConvertMongoError(mongo.CommandError{Code: 26, Message: "ns not found"}, "news")
		assert.True(t, IsSchemaError(err))
	})

	t.Run("command error khác thành NetworkError", func(t *testing.T) {
		err := ConvertMongoError(mongo.CommandError{Code: 13, Message: "Unauthorized"}, "news")
		assert.True(t, IsNetworkError(err))
		assert.Equal(t, "Unauthorized", UserMessage(err))
	})

	t.Run("nil giữ nguyên", func(t *testing.T) {
		assert.NoError(t, ConvertMongoError(nil, "news"))
	})
}
