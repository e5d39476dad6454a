package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds all mazegen settings.
type ServerConfig struct {
	Maze        MazeConfig        `yaml:"maze"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	Database    DatabaseConfig    `yaml:"database"`
	Viewer      ViewerConfig      `yaml:"viewer"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Enable only behind a reverse proxy that sets them.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// ListenAddress is the host:port the maze service binds to.
	ListenAddress string `yaml:"listen_address"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DatabaseConfig selects where generation history is recorded.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres". Empty disables history.
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// ViewerConfig holds terminal viewer settings.
type ViewerConfig struct {
	// PanStep is how many screen cells one key press moves the camera.
	PanStep int `yaml:"pan_step"`

	// ShowEndpoints marks the start and exit cells.
	ShowEndpoints bool `yaml:"show_endpoints"`
}

// DefaultConfig returns a ServerConfig with secure defaults.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Maze: PresetFor(DifficultyEasy),
		WebSocket: WebSocketConfig{
			ListenAddress:  ":4443",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 3,
			MaxTotal: 100,
		},
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/mazegen.db",
			Host:       "localhost",
			Port:       5432,
			SSLMode:    "disable",
		},
		Viewer: ViewerConfig{
			PanStep:       2,
			ShowEndpoints: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns default config. Loaded maze settings
// are clamped into range.
func LoadConfig(path string) (*ServerConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	config.Maze.Clamp()
	return config, nil
}

// LoadDotEnv loads KEY=value pairs from the given .env files (default ".env")
// into the process environment. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables. A difficulty is
// applied before explicit dimensions so MAZE_WIDTH can refine a preset.
// Out-of-range maze values are ignored, as with the setters.
func (c *ServerConfig) ApplyEnv() {
	if v := os.Getenv("MAZE_DIFFICULTY"); v != "" {
		if d, err := ParseDifficulty(v); err == nil {
			c.Maze.ApplyPreset(d)
		}
	}
	if n, ok := envInt("MAZE_WIDTH"); ok {
		c.Maze.SetWidth(n)
	}
	if n, ok := envInt("MAZE_LENGTH"); ok {
		c.Maze.SetLength(n)
	}
	if v := os.Getenv("MAZE_CELL_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Maze.SetCellSize(f)
		}
	}

	if v := os.Getenv("MAZE_LISTEN_ADDRESS"); v != "" {
		c.WebSocket.ListenAddress = v
	}

	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if n, ok := envInt("DB_PORT"); ok {
		c.Database.Port = n
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASS"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		c.Database.SSLMode = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate reports settings that cannot work.
func (c *ServerConfig) Validate() error {
	var errs []error

	if c.WebSocket.ListenAddress == "" {
		errs = append(errs, errors.New("websocket.listen_address is empty"))
	}
	if c.WebSocket.MaxMessageSize <= 0 {
		errs = append(errs, fmt.Errorf("websocket.max_message_size must be positive, got %d", c.WebSocket.MaxMessageSize))
	}
	if c.Connections.MaxPerIP < 0 || c.Connections.MaxTotal < 0 {
		errs = append(errs, errors.New("connection limits must not be negative"))
	}

	switch c.Database.Driver {
	case "":
	case "sqlite":
		if c.Database.SQLitePath == "" {
			errs = append(errs, errors.New("database.sqlite_path is required for sqlite"))
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("database.host and database.name are required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}

	if c.Viewer.PanStep < 1 {
		errs = append(errs, fmt.Errorf("viewer.pan_step must be at least 1, got %d", c.Viewer.PanStep))
	}

	return errors.Join(errs...)
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
