package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address   string `env:"ADDRESS" envDefault:":8080"`    // Địa chỉ server API
	JwtSecret string `env:"JWT_SECRET,required"`           // Bí mật ký token phiên admin
	PublicURL string `env:"PUBLIC_URL" envDefault:""`      // Host công khai của site (khi request không mang Host)
	DataRoot  string `env:"DATA_ROOT" envDefault:"./site"` // Thư mục chứa các file JSON tĩnh

	// Nguồn tĩnh qua HTTP (rỗng = đọc trực tiếp từ DataRoot)
	StaticBaseURL string `env:"STATIC_BASE_URL" envDefault:""`

	// Backend từ xa: postgres | mongo | none
	RemoteBackend          string `env:"REMOTE_BACKEND" envDefault:"none"`
	Postgres_ConnectionURI string `env:"POSTGRES_CONNECTION_URI"`               // Chuỗi kết nối Postgres/Supabase
	MongoDB_ConnectionURI  string `env:"MONGODB_CONNECTION_URI"`                // URL kết nối MongoDB
	MongoDB_DBName         string `env:"MONGODB_DBNAME" envDefault:"wiktowice"` // Tên database MongoDB
	RemoteTimeout          int    `env:"REMOTE_TIMEOUT" envDefault:"0"`         // Timeout thao tác backend (giây), 0 = không giới hạn

	// Bản sao cục bộ của từng collection (tương đương localStorage)
	MirrorDir string `env:"MIRROR_DIR" envDefault:"./data/mirror"`

	// Endpoint ghi file khi chạy ở localhost
	DevSaveURL       string `env:"DEV_SAVE_URL" envDefault:"http://localhost:3000/save"`
	DevServerAddress string `env:"DEV_SERVER_ADDRESS" envDefault:":3000"`

	// API upload của hosting tĩnh
	HostedUploadURL string `env:"HOSTED_UPLOAD_URL" envDefault:"https://neocities.org/api/upload"`

	// RabbitMQ: phát sự kiện khi collection được lưu bền vững (rỗng = tắt)
	AMQP_URL      string `env:"AMQP_URL"`
	AMQP_Exchange string `env:"AMQP_EXCHANGE" envDefault:"site_events"`

	// Radio "now playing"
	NowPlayingURL         string `env:"NOW_PLAYING_URL" envDefault:"https://api.radioking.io/widget/radio/radio-wiktowickie/track/current"`
	NowPlayingInterval    int    `env:"NOW_PLAYING_INTERVAL" envDefault:"10"` // giây
	NowPlayingFallbackArt string `env:"NOW_PLAYING_FALLBACK_ART" envDefault:"brakikony.png"`

	// Xác thực
	AdminPasswordKey string `env:"ADMIN_PASSWORD_KEY" envDefault:"admin_password"`                                            // Key trong system_config
	AdminPassword    string `env:"ADMIN_PASSWORD"`                                                                            // Dùng khi không có database (argon2id, sha256 hoặc plaintext)
	BankAdminHash    string `env:"BANK_ADMIN_HASH" envDefault:"5fc30dc0d520f847a3eabb9f3b47db7b596ad2df95660de1ec37a8c62a63d542"` // SHA-256 mật khẩu admin minigame bank
	SessionTTL       int    `env:"SESSION_TTL" envDefault:"480"`                                                              // phút

	// Thông báo
	NotificationTTL int `env:"NOTIFICATION_TTL" envDefault:"3"` // giây

	// SMTP (tùy chọn): gửi thông báo lỗi qua email
	SMTP_Host     string `env:"SMTP_HOST"`
	SMTP_Port     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTP_Username string `env:"SMTP_USERNAME"`
	SMTP_Password string `env:"SMTP_PASSWORD"`
	SMTP_From     string `env:"SMTP_FROM"`
	AlertEmail    string `env:"ALERT_EMAIL"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Đi lên cho đến khi tìm thấy config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc cấu hình từ file env của môi trường hiện tại rồi parse vào Configuration.
// Biến môi trường đã có sẵn trong process được ưu tiên hơn giá trị trong file.
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		fmt.Printf("Không tìm thấy thư mục config/env, chỉ dùng biến môi trường\n")
	} else if err := godotenv.Load(envPath); err != nil {
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}
	return &cfg
}

// HasRemote cho biết backend từ xa có được cấu hình không
func (c *Configuration) HasRemote() bool {
	switch c.RemoteBackend {
	case "postgres":
		return c.Postgres_ConnectionURI != ""
	case "mongo":
		return c.MongoDB_ConnectionURI != ""
	}
	return false
}

// SMTPEnabled cho biết kênh email có được cấu hình đầy đủ không
func (c *Configuration) SMTPEnabled() bool {
	return c.SMTP_Host != "" && c.SMTP_From != "" && c.AlertEmail != ""
}
