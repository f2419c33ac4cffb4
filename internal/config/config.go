package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"mock-exam-service/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Content struct {
		Path string `yaml:"path"`
		TTL  string `yaml:"ttl"`
	} `yaml:"content"`
	Session struct {
		IdleTTL string `yaml:"idle_ttl"`
	} `yaml:"session"`
	Exam Exam `yaml:"exam"`
}

// Exam is the raw exam section; zero fields take the defaults from domain.DefaultRules.
type Exam struct {
	TotalQuestions int              `yaml:"total_questions"`
	TimeMinutes    int              `yaml:"time_minutes"`
	TotalPassRate  *float64         `yaml:"total_pass_rate"`
	Subjects       []domain.Subject `yaml:"subjects"`
}

// Load reads YAML config from path. A .env file in the working directory, if
// present, is loaded first so ${VAR} references in the YAML can use it.
func Load(path string) (Config, error) {
	cfg := Config{}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Rules builds validated exam rules from the exam section.
func (c Config) Rules() (domain.ExamRules, error) {
	rules := domain.DefaultRules()
	if c.Exam.TotalQuestions > 0 {
		rules.TotalQuestions = c.Exam.TotalQuestions
	}
	if c.Exam.TimeMinutes > 0 {
		rules.Duration = time.Duration(c.Exam.TimeMinutes) * time.Minute
	}
	if c.Exam.TotalPassRate != nil {
		rules.TotalPassRate = *c.Exam.TotalPassRate
	}
	if len(c.Exam.Subjects) > 0 {
		rules.Subjects = append([]domain.Subject(nil), c.Exam.Subjects...)
	}
	if err := rules.Validate(); err != nil {
		return domain.ExamRules{}, err
	}
	return rules, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
