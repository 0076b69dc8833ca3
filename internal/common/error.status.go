package common

import (
	"errors"
	"fmt"
)

// HTTP Status Code Constants
const (
	StatusOK        = 200 // Thành công
	StatusCreated   = 201 // Tạo mới thành công
	StatusNoContent = 204 // Thành công nhưng không có nội dung trả về

	StatusBadRequest      = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized    = 401 // Chưa xác thực
	StatusForbidden       = 403 // Không có quyền truy cập
	StatusNotFound        = 404 // Không tìm thấy tài nguyên
	StatusConflict        = 409 // Xung đột dữ liệu
	StatusTooManyRequests = 429 // Quá nhiều yêu cầu

	StatusInternalServerError = 500 // Lỗi server
	StatusBadGateway          = 502 // Backend từ xa trả về lỗi
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages (hiển thị cho người dùng nên viết tiếng Ba Lan)
const (
	MsgSuccess = "Operacja zakończona pomyślnie"
	MsgCreated = "Utworzono pomyślnie"

	MsgBadRequest      = "Nieprawidłowe żądanie"
	MsgUnauthorized    = "Zaloguj się"
	MsgNotFound        = "Nie znaleziono zasobu"
	MsgTooManyRequests = "Zbyt wiele żądań, spróbuj ponownie później"
	MsgInternalError   = "Błąd systemu"
	MsgInvalidFormat   = "Nieprawidłowy format danych"

	MsgTokenMissing = "Brak tokenu sesji"
	MsgTokenInvalid = "Nieprawidłowy token sesji"
	MsgTokenExpired = "Sesja wygasła"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: NET_001)
	Category    string // Phân loại lỗi (ví dụ: Network)
	SubCategory string // Phân loại con
	Description string // Mô tả chi tiết
}

// Các category dùng cho taxonomy lỗi của hệ thống đồng bộ
const (
	CategorySystem     = "System"
	CategoryNetwork    = "Network"
	CategorySchema     = "Schema"
	CategoryValidation = "Validation"
	CategoryAuth       = "Authentication"
	CategoryBusiness   = "Business"
)

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    CategorySystem,
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	// Network Errors (NET_xxx): transport, DNS, CORS, backend từ chối
	ErrCodeNetwork = ErrorCode{
		Code:        "NET_001",
		Category:    CategoryNetwork,
		SubCategory: "Transport",
		Description: "Lỗi kết nối tới backend từ xa",
	}

	ErrCodeNetworkStatus = ErrorCode{
		Code:        "NET_002",
		Category:    CategoryNetwork,
		SubCategory: "Status",
		Description: "Backend từ xa trả về status lỗi",
	}

	// Schema Errors (SCHEMA_xxx): backend thiếu bảng/collection
	ErrCodeSchemaMissing = ErrorCode{
		Code:        "SCHEMA_001",
		Category:    CategorySchema,
		SubCategory: "MissingTable",
		Description: "Thiếu bảng hoặc collection trên backend",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    CategoryValidation,
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    CategoryValidation,
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	ErrCodeValidationUnique = ErrorCode{
		Code:        "VAL_003",
		Category:    CategoryValidation,
		SubCategory: "Unique",
		Description: "Vi phạm ràng buộc duy nhất",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    CategoryAuth,
		SubCategory: "Token",
		Description: "Lỗi liên quan đến token phiên",
	}

	ErrCodeAuthCredentials = ErrorCode{
		Code:        "AUTH_002",
		Category:    CategoryAuth,
		SubCategory: "Credentials",
		Description: "Sai mật khẩu",
	}

	ErrCodeAuthConfig = ErrorCode{
		Code:        "AUTH_003",
		Category:    CategoryAuth,
		SubCategory: "Config",
		Description: "Không lấy được mật khẩu admin từ system_config",
	}

	// Business Errors (BUS_xxx)
	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BUS_001",
		Category:    CategoryBusiness,
		SubCategory: "Operation",
		Description: "Lỗi thao tác nghiệp vụ",
	}

	ErrCodeBusinessNotFound = ErrorCode{
		Code:        "BUS_002",
		Category:    CategoryBusiness,
		SubCategory: "NotFound",
		Description: "Không tìm thấy bản ghi",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi (hiển thị cho người dùng)
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
	Cause      error     // Lỗi gốc (driver, transport, ...)
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap trả về lỗi gốc để errors.Is/As đi xuyên qua được
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is so sánh theo mã lỗi và message
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// NewNetworkError tạo NetworkError, giữ lại lỗi transport gốc
func NewNetworkError(message string, cause error) error {
	return &Error{
		Code:       ErrCodeNetwork,
		Message:    message,
		StatusCode: StatusBadGateway,
		Cause:      cause,
	}
}

// NewSchemaError tạo SchemaError kèm hướng dẫn khắc phục cho bảng bị thiếu
func NewSchemaError(table string, cause error) error {
	return &Error{
		Code:       ErrCodeSchemaMissing,
		Message:    fmt.Sprintf("Brakuje tabeli '%s' w bazie danych. Utwórz ją w edytorze SQL i odśwież panel.", table),
		StatusCode: StatusServiceUnavailable,
		Details:    map[string]string{"table": table},
		Cause:      cause,
	}
}

// NewValidationError tạo ValidationError với message cho người dùng
func NewValidationError(message string) error {
	return &Error{
		Code:       ErrCodeValidationInput,
		Message:    message,
		StatusCode: StatusBadRequest,
	}
}

// NewUniqueError tạo ValidationError cho vi phạm ràng buộc duy nhất
func NewUniqueError(message string, field string) error {
	return &Error{
		Code:       ErrCodeValidationUnique,
		Message:    message,
		StatusCode: StatusConflict,
		Details:    map[string]string{"field": field},
	}
}

// NewAuthError tạo AuthError
func NewAuthError(message string) error {
	return &Error{
		Code:       ErrCodeAuthCredentials,
		Message:    message,
		StatusCode: StatusUnauthorized,
	}
}

// categoryOf trả về category của lỗi nếu là *Error
func categoryOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code.Category
	}
	return ""
}

// IsNetworkError kiểm tra lỗi có thuộc nhóm Network không
func IsNetworkError(err error) bool { return categoryOf(err) == CategoryNetwork }

// IsSchemaError kiểm tra lỗi có thuộc nhóm Schema không
func IsSchemaError(err error) bool { return categoryOf(err) == CategorySchema }

// IsValidationError kiểm tra lỗi có thuộc nhóm Validation không
func IsValidationError(err error) bool { return categoryOf(err) == CategoryValidation }

// IsAuthError kiểm tra lỗi có thuộc nhóm Authentication không
func IsAuthError(err error) bool { return categoryOf(err) == CategoryAuth }

// Custom errors
var (
	ErrTokenExpired = NewError(ErrCodeAuthToken, MsgTokenExpired, StatusUnauthorized, nil)
	ErrTokenInvalid = NewError(ErrCodeAuthToken, MsgTokenInvalid, StatusUnauthorized, nil)
	ErrTokenMissing = NewError(ErrCodeAuthToken, MsgTokenMissing, StatusUnauthorized, nil)

	ErrInvalidFormat = NewError(ErrCodeValidationFormat, MsgInvalidFormat, StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Brak wymaganego pola", StatusBadRequest, nil)

	ErrUnknownCollection = NewError(ErrCodeBusinessNotFound, "Nieznana kolekcja", StatusNotFound, nil)
	ErrRecordNotFound    = NewError(ErrCodeBusinessNotFound, "Nie znaleziono elementu", StatusNotFound, nil)
	ErrNotConfirmed      = NewError(ErrCodeBusinessOperation, "Usunięcie wymaga potwierdzenia", StatusBadRequest, nil)
	ErrNoRemote          = NewError(ErrCodeBusinessOperation, "Brak połączenia z bazą danych", StatusServiceUnavailable, nil)
)

// UserMessage trả về message hiển thị cho người dùng của lỗi
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
