package api

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator() //nolint:gochecknoglobals // validator caches struct metadata

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report query parameter names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("query"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

type archetypesQuery struct {
	Season   int      `query:"season" validate:"required,gte=1920,lte=2100"`
	Position string   `query:"position" validate:"required,max=16"`
	MinUsage *float64 `query:"min_usage" validate:"omitempty,gte=0"`
	K        *int     `query:"k"`
}

type similarQuery struct {
	Season   int      `query:"season" validate:"required,gte=1920,lte=2100"`
	Position string   `query:"position" validate:"required,max=16"`
	MinUsage *float64 `query:"min_usage" validate:"omitempty,gte=0"`
	Player   string   `query:"player" validate:"required,max=128"`
	Team     string   `query:"team" validate:"omitempty,max=16"`
	N        int      `query:"n" validate:"gte=0,lte=1000"`
}

func parseArchetypesQuery(v url.Values) (archetypesQuery, error) {
	var (
		q   archetypesQuery
		err error
	)
	q.Position = strings.TrimSpace(v.Get("position"))
	if q.Season, err = intParam(v, "season"); err != nil {
		return q, err
	}
	if q.MinUsage, err = optionalFloatParam(v, "min_usage"); err != nil {
		return q, err
	}
	if q.K, err = optionalIntParam(v, "k"); err != nil {
		return q, err
	}
	return q, check(q)
}

func parseSimilarQuery(v url.Values) (similarQuery, error) {
	var (
		q   similarQuery
		err error
	)
	q.Position = strings.TrimSpace(v.Get("position"))
	q.Player = strings.TrimSpace(v.Get("player"))
	q.Team = strings.TrimSpace(v.Get("team"))
	if q.Season, err = intParam(v, "season"); err != nil {
		return q, err
	}
	if q.MinUsage, err = optionalFloatParam(v, "min_usage"); err != nil {
		return q, err
	}
	n, err := optionalIntParam(v, "n")
	if err != nil {
		return q, err
	}
	if n != nil {
		q.N = *n
	}
	return q, check(q)
}

func check(q any) error {
	err := validate.Struct(q)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrBadRequest, strings.Join(msgs, "; "))
}

func intParam(v url.Values, key string) (int, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, key)
	}
	return n, nil
}

func optionalIntParam(v url.Values, key string) (*int, error) {
	if strings.TrimSpace(v.Get(key)) == "" {
		return nil, nil
	}
	n, err := intParam(v, key)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optionalFloatParam(v url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", ErrBadRequest, key)
	}
	return &f, nil
}
