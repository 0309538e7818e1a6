package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	VooCheck VooCheckConfig `yaml:"voocheck"`
}

type KafkaConfig struct {
	Host                    string `yaml:"host"`
	Port                    int    `yaml:"port"`
	BookingCheckedTopicName string `yaml:"booking_checked_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type VooCheckConfig struct {
	HTTPAddr string `yaml:"http_addr"`

	BatchConcurrency  int `yaml:"batch_concurrency"`
	ResultsTTLSeconds int `yaml:"results_ttl_seconds"`

	// "live" hits the real carriers; "fake" answers deterministically.
	CarrierMode string `yaml:"carrier_mode"`

	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`

	GolAuthBaseURL    string `yaml:"gol_auth_base_url"`
	GolBookingBaseURL string `yaml:"gol_booking_base_url"`
	GolAATHeader      string `yaml:"gol_aat_header"`

	AzulBaseURL         string `yaml:"azul_base_url"`
	AzulSubscriptionKey string `yaml:"azul_subscription_key"`

	LatamBaseURL           string `yaml:"latam_base_url"`
	LatamWaitSeconds       int    `yaml:"latam_wait_seconds"`
	LatamNavTimeoutSeconds int    `yaml:"latam_nav_timeout_seconds"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
