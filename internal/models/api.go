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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend validates amounts and rates as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// BankAccount is one entry of an investor's bank list, also snapshotted on investments
type BankAccount struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
}

// Investor represents an investor record as returned by the backend
type Investor struct {
	Id        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Code      int             `json:"code"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Bank      []BankAccount   `json:"bank"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *time.Time      `json:"deletedAt"`
	UpdatedBy string          `json:"updatedBy,omitempty"`

	// Present on the detail endpoint only
	Agents []Agent `json:"agent,omitempty"`
	// Present on the list endpoint only
	ROI *decimal.Decimal `json:"ROI,omitempty"`
}

// IsDeleted reports whether the investor is soft-deleted
func (i Investor) IsDeleted() bool {
	return i.DeletedAt != nil
}

// PrimaryBank returns the first bank account, which new investments snapshot
func (i Investor) PrimaryBank() (BankAccount, bool) {
	if len(i.Bank) == 0 {
		return BankAccount{}, false
	}
	return i.Bank[0], true
}

// InvestorInput is the body of POST /investor/new and PATCH /investor/:id
type InvestorInput struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Code    int             `json:"code"`
	Phone   string          `json:"phone"`
	Address string          `json:"address"`
	Bank    []BankAccount   `json:"bank"`
	Balance decimal.Decimal `json:"balance"`
}

// Agent represents a delegated agent owned by exactly one investor
type Agent struct {
	Id         string     `json:"id"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
	InvestorId string     `json:"investorId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  *time.Time `json:"deletedAt"`
}

func (a Agent) IsDeleted() bool {
	return a.DeletedAt != nil
}

// AgentInput is the body of POST /agent/new
type AgentInput struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	InvestorId string `json:"investorId"`
}

// Aggregate is the server-computed dashboard summary from /investment/aggregate
type Aggregate struct {
	TotalInvestorsBalance *decimal.Decimal `json:"totalInvestorsBalance"`
	TotalProfit           decimal.Decimal  `json:"totalProfit"`
	AvgInterestRate       *decimal.Decimal `json:"avgInterestRate"`
	AvgROI                *decimal.Decimal `json:"avgROI"`
}

// ErrorPayload is the JSON body of every non-2xx backend response
type ErrorPayload struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	MetaData   struct {
		Target []string `json:"target"`
	} `json:"metaData"`
}
