package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimezone          = "America/Mexico_City"
	DefaultPostmarkURL       = "https://api.postmarkapp.com"
	DefaultRestaurantName    = "El Ajolote Frito"
	DefaultRestaurantAddress = "Periférico Blvrd Manuel Ávila Camacho 261, Polanco"
	DefaultCourierName       = "Juan"
	senderDisplayName        = "AjoloEats"

	// NoExpressionTimezone disables ScheduleExpressionTimezone on created schedules.
	NoExpressionTimezone = "-"
)

type PostmarkConfig struct {
	Token string `yaml:"token"`
	URL   string `yaml:"url"`
}

type EmailConfig struct {
	From       string `yaml:"from"`
	Restaurant string `yaml:"restaurant"`
	Delivery   string `yaml:"delivery"`
}

type RestaurantConfig struct {
	Name        string `yaml:"name"`
	Address     string `yaml:"address"`
	CourierName string `yaml:"courier_name"`
}

type SchedulerConfig struct {
	Group              string            `yaml:"group"`
	RoleARN            string            `yaml:"role_arn"`
	ExpressionTimezone string            `yaml:"expression_timezone"`
	Targets            map[string]string `yaml:"targets"`
}

type Config struct {
	LogLevel        string           `yaml:"log_level"`
	Timezone        string           `yaml:"timezone"`
	DisplayTimezone string           `yaml:"display_timezone"`
	Postmark        PostmarkConfig   `yaml:"postmark"`
	Email           EmailConfig      `yaml:"email"`
	Restaurant      RestaurantConfig `yaml:"restaurant"`
	Scheduler       SchedulerConfig  `yaml:"scheduler"`
	KafkaBrokers    []string         `yaml:"kafka_brokers"`
	Port            string           `yaml:"port"`
}

// Target keys under scheduler.targets, one per follow-up handler.
const (
	TargetCheckIn         = "restaurant_check_in"
	TargetOrderMoving     = "order_moving"
	TargetOrderDelivered  = "order_delivered"
	TargetFeedbackRequest = "feedback_request"
)

var targetEnv = map[string]string{
	TargetCheckIn:         "CHECKIN_FUNCTION_ARN",
	TargetOrderMoving:     "ORDER_MOVING_FUNCTION_ARN",
	TargetOrderDelivered:  "ORDER_DELIVERED_FUNCTION_ARN",
	TargetFeedbackRequest: "FEEDBACK_FUNCTION_ARN",
}

// Load reads .env (if present), an optional YAML file named by
// NOTIFIER_CONFIG, then applies environment overrides.
func Load() (*Config, error) {
	dotenv := getEnv("DOTENV_FILE", ".env")
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenv, err)
	}

	cfg := &Config{}
	if path := os.Getenv("NOTIFIER_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() {
	override(&c.LogLevel, "LOG_LEVEL")
	override(&c.Timezone, "TZ")
	override(&c.DisplayTimezone, "DISPLAY_TZ")
	// POSIX allows a leading colon (Lambda sets TZ=:UTC).
	c.Timezone = strings.TrimPrefix(c.Timezone, ":")
	c.DisplayTimezone = strings.TrimPrefix(c.DisplayTimezone, ":")
	override(&c.Postmark.Token, "POSTMARK_API_TOKEN")
	override(&c.Postmark.URL, "POSTMARK_API_URL")
	override(&c.Email.From, "EMAIL_FROM")
	override(&c.Email.Restaurant, "RESTAURANT_EMAIL")
	override(&c.Email.Delivery, "DELIVERY_EMAIL")
	override(&c.Restaurant.Name, "RESTAURANT_NAME")
	override(&c.Restaurant.Address, "RESTAURANT_ADDRESS")
	override(&c.Restaurant.CourierName, "COURIER_NAME")
	override(&c.Scheduler.Group, "SCHEDULE_GROUP")
	override(&c.Scheduler.RoleARN, "SCHEDULER_ROLE_ARN")
	override(&c.Scheduler.ExpressionTimezone, "SCHEDULE_EXPRESSION_TZ")
	c.Scheduler.ExpressionTimezone = strings.TrimPrefix(c.Scheduler.ExpressionTimezone, ":")
	override(&c.Port, "PORT")

	for key, env := range targetEnv {
		if v := os.Getenv(env); v != "" {
			if c.Scheduler.Targets == nil {
				c.Scheduler.Targets = make(map[string]string)
			}
			c.Scheduler.Targets[key] = v
		}
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.KafkaBrokers = strings.Split(brokers, ",")
	}
}

func (c *Config) applyDefaults() {
	setDefault(&c.LogLevel, "INFO")
	setDefault(&c.Timezone, DefaultTimezone)
	setDefault(&c.DisplayTimezone, DefaultTimezone)
	setDefault(&c.Postmark.URL, DefaultPostmarkURL)
	setDefault(&c.Restaurant.Name, DefaultRestaurantName)
	setDefault(&c.Restaurant.Address, DefaultRestaurantAddress)
	setDefault(&c.Restaurant.CourierName, DefaultCourierName)
	setDefault(&c.Scheduler.Group, "default")
	setDefault(&c.Scheduler.ExpressionTimezone, c.Timezone)
}

// Sender is the From header used for every message, e.g. "AjoloEats <no-reply@x.com>".
func (c *Config) Sender() string {
	return fmt.Sprintf("%s <%s>", senderDisplayName, c.Email.From)
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c *Config) DisplayLocation() (*time.Location, error) {
	return time.LoadLocation(c.DisplayTimezone)
}

// Validate checks what every handler needs: the email credential and both
// timezones. Follow-up handlers read the sender from their payload.
func (c *Config) Validate() error {
	var errs []error

	if c.Postmark.Token == "" {
		errs = append(errs, errors.New("POSTMARK_API_TOKEN is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", c.Timezone, err))
	}
	if _, err := c.DisplayLocation(); err != nil {
		errs = append(errs, fmt.Errorf("display timezone %q: %w", c.DisplayTimezone, err))
	}

	return errors.Join(errs...)
}

func (c *Config) validateIntake() []error {
	errs := []error{c.Validate()}

	if c.Email.From == "" {
		errs = append(errs, errors.New("EMAIL_FROM is required"))
	}
	if c.Email.Restaurant == "" {
		errs = append(errs, errors.New("RESTAURANT_EMAIL is required"))
	}
	if c.Email.Delivery == "" {
		errs = append(errs, errors.New("DELIVERY_EMAIL is required"))
	}
	return errs
}

// ValidateWorker checks what the Kafka worker needs: everything the order
// intake sends plus the brokers. Schedules travel as topics, so no targets.
func (c *Config) ValidateWorker() error {
	errs := c.validateIntake()
	if len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	return errors.Join(errs...)
}

// ValidateOrderPlaced adds the sender, recipients and scheduler targets
// only the order intake uses.
func (c *Config) ValidateOrderPlaced() error {
	errs := c.validateIntake()

	if c.Scheduler.RoleARN == "" {
		errs = append(errs, errors.New("SCHEDULER_ROLE_ARN is required"))
	}
	for key, env := range targetEnv {
		if c.Scheduler.Targets[key] == "" {
			errs = append(errs, fmt.Errorf("%s is required", env))
		}
	}
	if tz := c.Scheduler.ExpressionTimezone; tz != NoExpressionTimezone {
		if _, err := time.LoadLocation(tz); err != nil {
			errs = append(errs, fmt.Errorf("schedule expression timezone %q: %w", tz, err))
		}
	}

	return errors.Join(errs...)
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDefault(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
