package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

// contactFiltersRequest holds the listing query. Page and limit start at
// their defaults so an explicit zero still fails the min rule.
type contactFiltersRequest struct {
	Page      int      `query:"page"      validate:"min=1"`
	Limit     int      `query:"limit"     validate:"min=1"`
	Search    string   `query:"search"`
	Tags      []string `query:"tags"`
	IsActive  *bool    `query:"isActive"`
	SortBy    string   `query:"sortBy"    validate:"omitempty,oneof=name createdAt updatedAt"`
	SortOrder string   `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// queryKinds names what each typed parameter must parse as.
var queryKinds = map[string]string{
	"page":     "an integer",
	"limit":    "an integer",
	"isActive": "a boolean",
}

// bindContactFilters binds and validates the listing query. Type and rule
// failures are reported together in one *domain.ValidationError.
func bindContactFilters(c echo.Context) (ports.ContactFilters, error) {
	req := contactFiltersRequest{Page: domain.DefaultPage, Limit: domain.DefaultLimit}
	var (
		bracketTags []string
		active      bool
	)
	bindErrs := echo.QueryParamsBinder(c).
		FailFast(false).
		Int("page", &req.Page).
		Int("limit", &req.Limit).
		String("search", &req.Search).
		Strings("tags", &req.Tags).
		Strings("tags[]", &bracketTags).
		Bool("isActive", &active).
		String("sortBy", &req.SortBy).
		String("sortOrder", &req.SortOrder).
		BindErrors()

	var problems []string
	for _, err := range bindErrs {
		problems = append(problems, bindProblem(err))
	}
	if c.QueryParam("isActive") != "" {
		req.IsActive = &active
	}
	req.Tags = append(req.Tags, bracketTags...)
	req.SortOrder = strings.ToLower(req.SortOrder)

	if err := c.Validate(&req); err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			return ports.ContactFilters{}, err
		}
		problems = append(problems, ve.Problems...)
	}
	if len(problems) > 0 {
		return ports.ContactFilters{}, domain.NewValidationError(problems...)
	}

	return ports.ContactFilters{
		Page:      req.Page,
		Limit:     req.Limit,
		Search:    strings.TrimSpace(req.Search),
		Tags:      req.Tags,
		IsActive:  req.IsActive,
		SortBy:    domain.ContactSortField(req.SortBy),
		SortOrder: domain.SortOrder(req.SortOrder),
	}, nil
}

func bindProblem(err error) string {
	var be *echo.BindingError
	if !errors.As(err, &be) {
		return err.Error()
	}
	if kind, ok := queryKinds[be.Field]; ok {
		return fmt.Sprintf("%s must be %s", be.Field, kind)
	}
	return fmt.Sprintf("%s is malformed", be.Field)
}
