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

package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"investment-backoffice-go/internal/api"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/session"

	"go.uber.org/zap"
)

// RequireUser returns the signed-in identity or an error telling the operator
// to sign in first
func RequireUser(holder *session.Holder, logger *zap.Logger) (models.Identity, error) {
	identity, err := holder.Require()
	if err != nil {
		if errors.Is(err, session.ErrNotSignedIn) {
			return models.Identity{}, fmt.Errorf("not signed in, run the auth command with -login first: %w", err)
		}
		return models.Identity{}, err
	}

	logger.Debug("Acting as", zap.String("user_id", identity.UserId), zap.String("email", identity.Email))
	return identity, nil
}

// FindInvestors resolves investors by id, by exact email, or returns every
// investor sorted by code when both filters are empty
func FindInvestors(ctx context.Context, svc *api.BackOfficeService, id, emailFilter string, includeDeleted bool, logger *zap.Logger) ([]models.Investor, error) {
	if id != "" {
		logger.Info("Looking up investor by id", zap.String("investor_id", id))
		investor, err := svc.GetInvestor(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("investor not found: %w", err)
		}
		return []models.Investor{*investor}, nil
	}

	all, err := svc.ListInvestors(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to get investors: %w", err)
	}

	var investors []models.Investor
	for _, inv := range all {
		if emailFilter == "" || inv.Email == emailFilter {
			investors = append(investors, inv)
		}
	}
	if emailFilter != "" && len(investors) == 0 {
		return nil, fmt.Errorf("no investor with email %s", emailFilter)
	}

	sort.SliceStable(investors, func(i, j int) bool { return investors[i].Code < investors[j].Code })
	logger.Info("Retrieved investors", zap.Int("count", len(investors)))
	return investors, nil
}

// PrintError writes the operator-facing text of err
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "✗ %s\n", ErrorMessage(err))
}
