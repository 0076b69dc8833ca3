package common

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// Các mã lỗi cho biết backend thiếu bảng
const (
	PgCodeUndefinedTable = "42P01"    // SQLSTATE undefined_table
	PostgrestNoColumn    = "PGRST204" // PostgREST: schema cache không có cột/bảng
	PostgrestNoTable     = "PGRST205" // PostgREST: không tìm thấy bảng trong schema cache
	PostgrestNotFound    = "404"
)

// IsMissingTable nhận diện lỗi thiếu bảng dựa trên mã lỗi và message.
// Message được kiểm tra theo dạng `relation "public.<table>" does not exist`.
func IsMissingTable(code, message, table string) bool {
	switch code {
	case PgCodeUndefinedTable, PostgrestNoColumn, PostgrestNoTable, PostgrestNotFound:
		return true
	}
	if table != "" && strings.Contains(message, fmt.Sprintf(`relation "public.%s" does not exist`, table)) {
		return true
	}
	return strings.Contains(message, "relation \"") && strings.Contains(message, "does not exist")
}

// ConvertPgError chuyển lỗi từ pgx sang taxonomy của hệ thống
func ConvertPgError(err error, table string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if IsMissingTable(pgErr.Code, pgErr.Message, table) {
			return NewSchemaError(table, err)
		}
		return NewNetworkError(pgErr.Message, err)
	}

	if IsMissingTable("", err.Error(), table) {
		return NewSchemaError(table, err)
	}
	return NewNetworkError(describeTransport(err), err)
}

// ConvertMongoError chuyển lỗi MongoDB sang taxonomy của hệ thống
func ConvertMongoError(err error, collection string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 26 = NamespaceNotFound
		if cmdErr.Code == 26 {
			return NewSchemaError(collection, err)
		}
		return NewNetworkError(cmdErr.Message, err)
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return NewNetworkError(describeTransport(err), err)
	}
	return NewNetworkError(err.Error(), err)
}

// describeTransport trả về message ngắn gọn cho lỗi transport
func describeTransport(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Przekroczono czas oczekiwania na bazę danych"
	case errors.Is(err, context.Canceled):
		return "Żądanie zostało anulowane"
	case errors.As(err, &netErr):
		return "Błąd sieci: " + netErr.Error()
	}
	return err.Error()
}
