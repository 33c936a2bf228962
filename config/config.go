package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Grading  Grading
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Grading carries the policy points left configurable rather than hard-coded:
// whether essay points count toward max score before manual grading, whether
// late submissions are still graded, and how often attempt-number assignment
// retries on a unique-constraint conflict.
type Grading struct {
	EssayPointsInMaxScore bool
	GradeLateSubmissions  bool
	AttemptNumberRetries  int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GRADING_ESSAY_POINTS_IN_MAX_SCORE", true)
	viper.SetDefault("GRADING_GRADE_LATE_SUBMISSIONS", true)
	viper.SetDefault("GRADING_ATTEMPT_NUMBER_RETRIES", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Grading.EssayPointsInMaxScore = viper.GetBool("GRADING_ESSAY_POINTS_IN_MAX_SCORE")
	config.Grading.GradeLateSubmissions = viper.GetBool("GRADING_GRADE_LATE_SUBMISSIONS")
	config.Grading.AttemptNumberRetries = viper.GetInt("GRADING_ATTEMPT_NUMBER_RETRIES")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
