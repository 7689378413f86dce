package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yohanes2124/dms-portal/internal/dto"
	"github.com/yohanes2124/dms-portal/internal/models"
)

type ruleRepoStub struct {
	rules        []models.Rule
	lastCategory string
}

func (s *ruleRepoStub) Create(ctx context.Context, rule *models.Rule) error {
	rule.ID = uint(len(s.rules) + 1)
	s.rules = append(s.rules, *rule)
	return nil
}

func (s *ruleRepoStub) FindByID(ctx context.Context, id uint) (models.Rule, error) {
	for _, rule := range s.rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return models.Rule{}, gorm.ErrRecordNotFound
}

func (s *ruleRepoStub) ListActive(ctx context.Context, category string) ([]models.Rule, error) {
	s.lastCategory = category
	var out []models.Rule
	for _, rule := range s.rules {
		if rule.Active && (category == "" || rule.Category == category) {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (s *ruleRepoStub) Update(ctx context.Context, rule *models.Rule) error {
	for i := range s.rules {
		if s.rules[i].ID == rule.ID {
			s.rules[i] = *rule
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *ruleRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return nil
		}
	}
	return nil
}

func newRuleFixture() (*ruleRepoStub, RuleService) {
	repo := &ruleRepoStub{}
	svc := NewRuleService(repo, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	return repo, svc
}

func TestRuleCreateSanitizesAndNormalizes(t *testing.T) {
	_, svc := newRuleFixture()

	rule, err := svc.Create(context.Background(), dto.RuleCreateRequest{
		Title:    " Quiet hours ",
		Body:     `No noise after <strong>22:00</strong><script>alert("x")</script>`,
		Category: " Conduct ",
	})
	require.NoError(t, err)
	require.Equal(t, "Quiet hours", rule.Title)
	require.Equal(t, "conduct", rule.Category)
	require.Contains(t, rule.Body, "<strong>22:00</strong>")
	require.NotContains(t, rule.Body, "<script>")
	require.True(t, rule.Active)
}

func TestRuleListActiveNormalizesCategoryFilter(t *testing.T) {
	repo, svc := newRuleFixture()
	repo.rules = []models.Rule{
		{ID: 1, Title: "Quiet hours", Category: "conduct", Active: true},
		{ID: 2, Title: "Old rule", Category: "conduct", Active: false},
	}

	rules, err := svc.ListActive(context.Background(), " Conduct ")
	require.NoError(t, err)
	require.Equal(t, "conduct", repo.lastCategory)
	require.Len(t, rules, 1)
	require.Equal(t, "Quiet hours", rules[0].Title)
}

func TestRuleUpdateAndDelete(t *testing.T) {
	repo, svc := newRuleFixture()
	repo.rules = []models.Rule{{ID: 1, Title: "Quiet hours", Category: "conduct", Active: true}}

	inactive := false
	updated, err := svc.Update(context.Background(), 1, dto.RuleUpdateRequest{Active: &inactive})
	require.NoError(t, err)
	require.False(t, updated.Active)

	_, err = svc.Update(context.Background(), 9, dto.RuleUpdateRequest{Active: &inactive})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), 1))
	require.ErrorIs(t, svc.Delete(context.Background(), 1), ErrNotFound)
	require.Empty(t, repo.rules)
}
