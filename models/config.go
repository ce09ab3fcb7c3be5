package models

// Config holds database connection and server settings loaded from config.json.
type Config struct {
	DBHost        string   `json:"db_host"`
	DBUser        string   `json:"db_user"`
	DBPassword    string   `json:"db_password"`
	DBName        string   `json:"db_name"`
	DBSSLMode     string   `json:"db_sslmode"`
	JWTSecret     string   `json:"jwt_secret"`
	ListenAddr    string   `json:"listen_addr"`
	AllowOrigins  []string `json:"allow_origins"`
	EmailDomain   string   `json:"email_domain"`   // institutional mail domain, e.g. "stu.unisport.edu"
	AdminStudents []string `json:"admin_students"` // student IDs granted the admin role on first login
}
