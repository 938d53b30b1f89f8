package api

import (
	"context"
	"time"

	"investment-backoffice-go/internal/cache"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/views"

	"go.uber.org/zap"
)

// ListAgents returns the linked agents of an investor. Unlinked agents are dropped.
func (s *BackOfficeService) ListAgents(ctx context.Context, investorId string) ([]models.Agent, error) {
	ctx = withOperation(ctx, "agent.list")
	agents, err := cache.FetchAs(ctx, s.cache, cache.AgentsKey(investorId), func(ctx context.Context) ([]models.Agent, error) {
		return s.backend.ListAgents(ctx, investorId)
	})
	if err != nil {
		return nil, s.handleError(ctx, "list agents", err)
	}
	return views.ActiveAgents(agents), nil
}

// CreateAgent registers a new agent for the investor
func (s *BackOfficeService) CreateAgent(ctx context.Context, investorId string, values map[string]string) (*models.Agent, error) {
	ctx = withOperation(ctx, "agent.create")
	input, err := agentInput(investorId, values)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	placeholder := models.Agent{
		Id:         pendingId(),
		Name:       input.Name,
		Phone:      input.Phone,
		Address:    input.Address,
		InvestorId: investorId,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var created *models.Agent
	err = s.sync.Mutate(ctx, cache.AgentsKey(investorId),
		cache.ListTransform(func(list []models.Agent) []models.Agent {
			return cache.Append(list, placeholder)
		}),
		func(ctx context.Context) error {
			created, err = s.backend.CreateAgent(ctx, input)
			return err
		})
	if err != nil {
		return nil, s.handleError(ctx, "create agent", err)
	}

	s.cache.Invalidate(cache.InvestorKey(investorId))
	zap.L().Info("Agent created", zap.String("investor_id", investorId), zap.String("name", input.Name))
	return created, nil
}

// UnlinkAgent detaches an agent from its investor
func (s *BackOfficeService) UnlinkAgent(ctx context.Context, investorId, agentId string) error {
	ctx = withOperation(ctx, "agent.unlink")
	err := s.sync.Mutate(ctx, cache.AgentsKey(investorId),
		cache.ListTransform(func(list []models.Agent) []models.Agent {
			return cache.RemoveWhere(list, func(a models.Agent) bool { return a.Id == agentId })
		}),
		func(ctx context.Context) error {
			return s.backend.UnlinkAgent(ctx, agentId)
		})
	if err != nil {
		return s.handleError(ctx, "unlink agent", err)
	}

	s.cache.Invalidate(cache.InvestorKey(investorId))
	zap.L().Info("Agent unlinked", zap.String("investor_id", investorId), zap.String("agent_id", agentId))
	return nil
}
