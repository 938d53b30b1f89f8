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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"investment-backoffice-go/internal/common"
	"investment-backoffice-go/internal/config"
	"investment-backoffice-go/internal/models"

	"go.uber.org/zap"
)

func printIdentity(identity models.Identity) {
	fmt.Printf("\n┌─ Signed in as %s (%s)\n", identity.Name, identity.Email)
	fmt.Printf("└  ID: %s\n\n", identity.UserId)
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger(os.Getenv("LOG_LEVEL"))
	defer loggerCleanup()

	registerFlag := flag.Bool("register", false, "Create an account and sign in")
	loginFlag := flag.Bool("login", false, "Sign in")
	logoutFlag := flag.Bool("logout", false, "Sign out and forget the stored session")
	nameFlag := flag.String("name", "", "Account name (register)")
	emailFlag := flag.String("email", "", "Account email")
	passwordFlag := flag.String("password", "", "Account password (defaults to BACKOFFICE_PASSWORD)")
	flag.Parse()

	password := *passwordFlag
	if password == "" {
		password = os.Getenv("BACKOFFICE_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	svc := services.BackOffice
	values := map[string]string{"name": *nameFlag, "email": *emailFlag, "password": password}

	switch {
	case *registerFlag:
		identity, err := svc.Register(ctx, values)
		if err != nil {
			common.PrintError(os.Stderr, err)
			logger.Fatal("Registration failed", zap.Error(err))
		}
		printIdentity(identity)

	case *loginFlag:
		identity, err := svc.SignIn(ctx, values)
		if err != nil {
			common.PrintError(os.Stderr, err)
			logger.Fatal("Sign-in failed", zap.Error(err))
		}
		printIdentity(identity)

	case *logoutFlag:
		if err := svc.Logout(ctx); err != nil {
			// the local session is already gone at this point
			fmt.Println("An error occurred")
			logger.Warn("Backend logout failed", zap.Error(err))
		}
		fmt.Println("✓ Signed out")

	default:
		identity, ok := services.Session.Current()
		if !ok {
			fmt.Println("Not signed in")
			return
		}
		printIdentity(identity)
	}
}
