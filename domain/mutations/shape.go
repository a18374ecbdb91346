package mutations

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// Payload shapes checked by struct tags. Field names in messages come from
// the json tags so they match the wire form.
type nodeShape struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type" validate:"required"`
}

type edgeShape struct {
	ID     string `json:"id" validate:"required"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
	Type   string `json:"type" validate:"required"`
}

type idShape struct {
	ID string `json:"id" validate:"required"`
}

type changesShape struct {
	ID      string                 `json:"id" validate:"required"`
	Changes map[string]interface{} `json:"changes" validate:"required,min=1"`
}

type batchShape struct {
	Mutations []Mutation `json:"mutations" validate:"required,min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CheckShape verifies that a mutation's payload carries what its kind
// requires. Batches are checked item by item with an indexed field path.
func CheckShape(m Mutation) []*pkgerrors.DomainError {
	errs := pkgerrors.NewValidationErrors()
	checkShape(errs, "", m)
	return errs.Errors
}

func checkShape(errs *pkgerrors.ValidationErrors, prefix string, m Mutation) {
	var shape interface{}
	switch v := m.(type) {
	case nil:
		errs.AddError(shapeError(prefix, "mutation is required"))
		return
	case AddNode:
		shape = nodeShape{ID: v.Node.ID, Type: v.Node.Type}
	case RemoveNode:
		shape = idShape{ID: v.ID}
	case UpdateNode:
		shape = changesShape{ID: v.ID, Changes: v.Changes}
	case AddEdge:
		shape = edgeShape{ID: v.Edge.ID, Source: v.Edge.Source, Target: v.Edge.Target, Type: v.Edge.Type}
	case RemoveEdge:
		shape = idShape{ID: v.ID}
	case UpdateEdge:
		shape = changesShape{ID: v.ID, Changes: v.Changes}
	case Batch:
		shape = batchShape{Mutations: v.Mutations}
	}

	if err := validate.Struct(shape); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs.AddError(shapeError(prefix, err.Error()))
			return
		}
		for _, fe := range fieldErrs {
			errs.AddError(shapeError(prefix+fe.Field(), formatFieldError(prefix, m.Kind(), fe)).
				WithDetail("tag", fe.Tag()))
		}
	}

	if b, ok := m.(Batch); ok {
		for i, item := range b.Mutations {
			checkShape(errs, fmt.Sprintf("%smutations[%d].", prefix, i), item)
		}
	}
}

func shapeError(field, message string) *pkgerrors.DomainError {
	return pkgerrors.NewDomainError(pkgerrors.DomainValidationError, pkgerrors.CodeInvalidPayload, message).
		WithDetail("field", strings.TrimSuffix(field, "."))
}

func formatFieldError(prefix string, kind Kind, e validator.FieldError) string {
	field := prefix + e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s requires %s", kind, field)
	case "min":
		return fmt.Sprintf("%s %s must have at least %s entries", kind, field, e.Param())
	default:
		return fmt.Sprintf("%s %s is invalid", kind, field)
	}
}
