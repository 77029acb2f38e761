package config

import "time"

// BattleConfig holds all configuration for the battle service
type BattleConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	RepoType string // memory | redis
	Settings BattleSettings
}

// BattleSettings are the gameplay tunables
type BattleSettings struct {
	Duration        time.Duration // length of the active click window
	CookiesPerWager int64         // cookies charged/paid per wager unit
	RoomIDLength    int
}

// LoadBattleConfig loads configuration for the battle service
func LoadBattleConfig() *BattleConfig {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "pookie_user"),
		Password: getEnv("DB_PASSWORD", "pookie_pass"),
		Name:     getEnv("DB_NAME", "pookie_db"),
	}

	redisConfig := RedisConfig{
		Host: getEnv("REDIS_HOST", "localhost"),
		Port: getEnv("REDIS_PORT", "6379"),
	}

	return &BattleConfig{
		Server: ServerConfig{
			Port:     getEnv("BATTLE_SERVER_PORT", "8080"),
			Name:     "battle-service",
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: dbConfig,
		Redis:    redisConfig,
		RepoType: getEnv("BATTLE_REPO_TYPE", "memory"),
		Settings: BattleSettings{
			Duration:        time.Duration(getEnvInt("BATTLE_DURATION_SECONDS", 15)) * time.Second,
			CookiesPerWager: int64(getEnvInt("BATTLE_COOKIES_PER_WAGER", 10)),
			RoomIDLength:    getEnvInt("BATTLE_ROOM_ID_LENGTH", 6),
		},
	}
}
