package transcript

import (
	"fmt"
	"strings"

	"github.com/ethanbaker/chatbot/pkg/utils"
	"github.com/go-sql-driver/mysql"
)

// Store backends selectable with TRANSCRIPT_STORE
const (
	BackendMemory = "memory"
	BackendSqlite = "sqlite"
	BackendMySql  = "mysql"
)

// Open builds the store named by TRANSCRIPT_STORE
func Open(cfg *utils.Config) (Store, error) {
	backend := strings.ToLower(cfg.GetWithDefault("TRANSCRIPT_STORE", BackendMemory))

	switch backend {
	case BackendMemory:
		return NewInMemoryStore(), nil

	case BackendSqlite:
		return NewSqliteStore(cfg.GetWithDefault("SQLITE_PATH", "chatbot.db"))

	case BackendMySql:
		// Create MySQL config
		dbConfig := mysql.Config{
			User:                 cfg.Get("MYSQL_USERNAME"),
			Passwd:               cfg.Get("MYSQL_ROOT_PASSWORD"),
			Net:                  "tcp",
			Addr:                 fmt.Sprintf("%s:%s", cfg.GetWithDefault("MYSQL_HOST", "localhost"), cfg.GetWithDefault("MYSQL_PORT", "3306")),
			DBName:               cfg.Get("MYSQL_DATABASE"),
			AllowNativePasswords: true,
		}
		return NewMySqlStore(dbConfig)

	default:
		return nil, fmt.Errorf("unknown transcript store %q", backend)
	}
}
