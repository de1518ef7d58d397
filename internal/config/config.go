package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host            string
	Port            int
	AllowOrigins    []string
	LogLevel        string
	LogFile         string
	InventarioPath  string
	ComplementsPath string
	WireLogFile     string
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8000"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:            getenv("HOST", "127.0.0.1"),
		Port:            port,
		AllowOrigins:    origins,
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFile:         getenv("LOG_FILE", "logs/inventario-mcp.log"),
		InventarioPath:  getenv("INVENTARIO_CSV", "prueba.csv"),
		ComplementsPath: getenv("COMPLEMENTOS_CSV", "complementos.csv"),
		WireLogFile:     getenv("MCP_LOG", "logs/mcp_logs.jsonl"),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
