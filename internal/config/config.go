/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"investment-backoffice-go/internal/models"
)

func Load() (*models.Config, error) {
	requestTimeout, err := getEnvDuration("API_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	dialTimeout, err := getEnvDuration("API_DIAL_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	idleConnTimeout, err := getEnvDuration("API_IDLE_CONN_TIMEOUT", 90*time.Second)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(getEnvString("API_BASE_URL", "http://localhost:5000"), "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL: %q (%w)", baseURL, err)
	}

	return &models.Config{
		Api: models.ApiConfig{
			BaseURL:         baseURL,
			RequestTimeout:  requestTimeout,
			DialTimeout:     dialTimeout,
			MaxIdleConns:    getEnvInt("API_MAX_IDLE_CONNS", 10),
			IdleConnTimeout: idleConnTimeout,
		},
		Database: models.DatabaseConfig{
			Path:            getEnvString("SESSION_DB_PATH", "session.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 4),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Export: models.ExportConfig{
			Directory:   getEnvString("EXPORT_DIR", "."),
			HeadersFile: getEnvString("EXPORT_HEADERS_FILE", ""),
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
