package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"investment-backoffice-go/internal/models"
)

// isoLayout matches the timestamps the backend expects in list filters
const isoLayout = "2006-01-02T15:04:05.000Z"

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Service) authenticate(ctx context.Context, path string, body any) (string, error) {
	var resp tokenResponse
	if err := s.do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: %s returned no token", ErrNetwork, path)
	}
	return resp.Token, nil
}

// Register creates an account and returns its credential token
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	return s.authenticate(ctx, "/auth/register", req)
}

// Login exchanges credentials for a token
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	return s.authenticate(ctx, "/auth/login", req)
}

func (s *Service) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// --- Investors ---

func (s *Service) ListInvestors(ctx context.Context, includeDeleted bool) ([]models.Investor, error) {
	query := url.Values{"deleted": {strconv.FormatBool(includeDeleted)}}
	var investors []models.Investor
	if err := s.do(ctx, http.MethodGet, "/investor/list", query, nil, &investors); err != nil {
		return nil, err
	}
	return investors, nil
}

func (s *Service) GetInvestor(ctx context.Context, id string) (*models.Investor, error) {
	var investor models.Investor
	if err := s.do(ctx, http.MethodGet, "/investor/"+url.PathEscape(id), nil, nil, &investor); err != nil {
		return nil, err
	}
	return &investor, nil
}

func (s *Service) CreateInvestor(ctx context.Context, input models.InvestorInput) (*models.Investor, error) {
	return decodeOptional[models.Investor](ctx, s, http.MethodPost, "/investor/new", input)
}

func (s *Service) UpdateInvestor(ctx context.Context, id string, input models.InvestorInput) (*models.Investor, error) {
	return decodeOptional[models.Investor](ctx, s, http.MethodPatch, "/investor/"+url.PathEscape(id), input)
}

func (s *Service) DeleteInvestor(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/investor/"+url.PathEscape(id), nil, nil, nil)
}

func (s *Service) RecoverInvestor(ctx context.Context, id string) error {
	body := map[string]string{"investorId": id}
	return s.do(ctx, http.MethodPatch, "/investor/recover", nil, body, nil)
}

// --- Agents ---

func (s *Service) ListAgents(ctx context.Context, investorId string) ([]models.Agent, error) {
	var agents []models.Agent
	if err := s.do(ctx, http.MethodGet, "/agent/investor/"+url.PathEscape(investorId), nil, nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

func (s *Service) CreateAgent(ctx context.Context, input models.AgentInput) (*models.Agent, error) {
	return decodeOptional[models.Agent](ctx, s, http.MethodPost, "/agent/new", input)
}

func (s *Service) UnlinkAgent(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodPatch, "/agent/unlink/"+url.PathEscape(id), nil, nil, nil)
}

// --- Investments ---

func rangeQuery(query url.Values, r models.DateRange) {
	if r.Start != nil {
		query.Set("startDate", r.Start.UTC().Format(isoLayout))
	}
	if r.End != nil {
		query.Set("endDate", r.End.UTC().Format(isoLayout))
	}
}

// InvestmentQuery returns the query parameters of /investment/list for filter
func InvestmentQuery(filter models.InvestmentFilter) url.Values {
	query := url.Values{}
	if filter.InvestorId != "" {
		query.Set("investorId", filter.InvestorId)
	}
	if filter.WithInvestor {
		query.Set("withInvestor", "true")
	}
	filterType := filter.FilterType
	if filterType == "" {
		filterType = models.FilterByCreatedAt
	}
	query.Set("dateFilterType", string(filterType))
	rangeQuery(query, filter.Range)
	return query
}

func (s *Service) ListInvestments(ctx context.Context, filter models.InvestmentFilter) ([]models.Investment, error) {
	var investments []models.Investment
	if err := s.do(ctx, http.MethodGet, "/investment/list", InvestmentQuery(filter), nil, &investments); err != nil {
		return nil, err
	}
	return investments, nil
}

func (s *Service) CreateInvestment(ctx context.Context, input models.InvestmentInput) (*models.Investment, error) {
	return decodeOptional[models.Investment](ctx, s, http.MethodPost, "/investment/new", input)
}

func (s *Service) UpdateInvestment(ctx context.Context, id string, input models.InvestmentInput) (*models.Investment, error) {
	return decodeOptional[models.Investment](ctx, s, http.MethodPut, "/investment/"+url.PathEscape(id), input)
}

func (s *Service) DeleteInvestment(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/investment/"+url.PathEscape(id), nil, nil, nil)
}

func (s *Service) RedeemInvestment(ctx context.Context, id string, input models.RedeemInput) (*models.Investment, error) {
	return decodeOptional[models.Investment](ctx, s, http.MethodPatch, "/investment/redeem/"+url.PathEscape(id), input)
}

// Aggregate returns the dashboard figures, optionally restricted to a date range
func (s *Service) Aggregate(ctx context.Context, r models.DateRange) (*models.Aggregate, error) {
	query := url.Values{}
	rangeQuery(query, r)

	var aggregate models.Aggregate
	if err := s.do(ctx, http.MethodGet, "/investment/aggregate", query, nil, &aggregate); err != nil {
		return nil, err
	}
	return &aggregate, nil
}
