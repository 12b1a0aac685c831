package entity

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// Optional campo de actualización parcial con semántica explícita:
//   - ausente en el JSON: Set=false, el campo no se toca
//   - null: Set=true, Null=true, el campo se limpia (solo campos anulables)
//   - valor: Set=true, se asigna Value
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some construye un Optional con valor.
func Some[T any](v T) Optional[T] { return Optional[T]{Set: true, Value: v} }

// Null construye un Optional que limpia el campo.
func Null[T any]() Optional[T] { return Optional[T]{Set: true, Null: true} }

// UnmarshalJSON solo se invoca si la clave está presente, por eso marca Set.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

// MarshalJSON serializa null o el valor.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// assign aplica el Optional a un campo no anulable. null es un error.
func assign[T any](field string, o Optional[T], dst *T) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		return fmt.Errorf("%w: %s no admite null", domain.ErrInvalidInput, field)
	}
	*dst = o.Value
	return nil
}

// assignNullable aplica el Optional a un campo anulable (puntero).
func assignNullable[T any](o Optional[T], dst **T) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = nil
		return
	}
	v := o.Value
	*dst = &v
}
