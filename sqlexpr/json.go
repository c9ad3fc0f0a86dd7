package sqlexpr

import (
	"encoding/json"
	"fmt"
)

// Expressions serialize as JSON objects with a "kind" discriminator,
// predicates with an "op" discriminator. Unknown discriminators fail
// decoding so that a manifest written by a newer version is rejected rather
// than silently misread.

// MarshalJSON implements json.Marshaler
func (c Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Field string `json:"field"`
	}{KindColumn, c.Field})
}

// MarshalJSON implements json.Marshaler
func (f Func) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind   `json:"kind"`
		Name string `json:"name"`
		Args []Expr `json:"args,omitempty"`
	}{KindFunc, f.Name, f.Args})
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind `json:"kind"`
		Value any  `json:"value"`
	}{KindValue, v.V})
}

// MarshalJSON implements json.Marshaler
func (o OrderBy) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind  `json:"kind"`
		Expr  Expr  `json:"expr"`
		Desc  bool  `json:"desc,omitempty"`
		Nulls Nulls `json:"nulls,omitempty"`
	}{KindOrderBy, o.Expr, o.Desc, o.Nulls})
}

// MarshalJSON implements json.Marshaler
func (c Collate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind      Kind   `json:"kind"`
		Expr      Expr   `json:"expr"`
		Collation string `json:"collation"`
	}{KindCollate, c.Expr, c.Collation})
}

// MarshalJSON implements json.Marshaler
func (r Raw) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   Kind   `json:"kind"`
		SQL    string `json:"sql"`
		Params []any  `json:"params,omitempty"`
	}{KindRaw, r.SQL, r.Params})
}

// MarshalJSON implements json.Marshaler
func (p Paren) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		Expr Expr `json:"expr"`
	}{KindParen, p.Expr})
}

// UnmarshalExpr decodes a tagged expression node.
func UnmarshalExpr(data []byte) (Expr, error) {
	var head struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Kind {
	case KindColumn:
		var dto struct {
			Field string `json:"field"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		return Column{Field: dto.Field}, nil
	case KindFunc:
		var dto struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		var args []Expr
		for _, raw := range dto.Args {
			arg, err := UnmarshalExpr(raw)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return Func{Name: dto.Name, Args: args}, nil
	case KindValue:
		var dto struct {
			Value any `json:"value"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		return Value{V: dto.Value}, nil
	case KindOrderBy:
		var dto struct {
			Expr  json.RawMessage `json:"expr"`
			Desc  bool            `json:"desc"`
			Nulls Nulls           `json:"nulls"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		inner, err := UnmarshalExpr(dto.Expr)
		if err != nil {
			return nil, err
		}
		return OrderBy{Expr: inner, Desc: dto.Desc, Nulls: dto.Nulls}, nil
	case KindCollate:
		var dto struct {
			Expr      json.RawMessage `json:"expr"`
			Collation string          `json:"collation"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		inner, err := UnmarshalExpr(dto.Expr)
		if err != nil {
			return nil, err
		}
		return Collate{Expr: inner, Collation: dto.Collation}, nil
	case KindRaw:
		var dto struct {
			SQL    string `json:"sql"`
			Params []any  `json:"params"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		return Raw{SQL: dto.SQL, Params: dto.Params}, nil
	case KindParen:
		var dto struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		inner, err := UnmarshalExpr(dto.Expr)
		if err != nil {
			return nil, err
		}
		return Paren{Expr: inner}, nil
	default:
		return nil, fmt.Errorf("unknown expression kind %q", head.Kind)
	}
}

// List is a JSON-codable sequence of expressions.
type List []Expr

// UnmarshalJSON implements json.Unmarshaler
func (l *List) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	var out List
	for _, raw := range raws {
		e, err := UnmarshalExpr(raw)
		if err != nil {
			return err
		}
		out = append(out, e)
	}
	*l = out
	return nil
}

// MarshalJSON implements json.Marshaler
func (c cmp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op    string `json:"op"`
		Field string `json:"field"`
		Value any    `json:"value"`
	}{c.op, c.field, c.value})
}

// MarshalJSON implements json.Marshaler
func (i in) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op     string `json:"op"`
		Field  string `json:"field"`
		Values []any  `json:"values"`
	}{"in", i.field, i.values})
}

// MarshalJSON implements json.Marshaler
func (g group) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op    string      `json:"op"`
		Preds []Predicate `json:"preds"`
	}{g.op, g.preds})
}

// MarshalJSON implements json.Marshaler
func (n not) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Op   string    `json:"op"`
		Pred Predicate `json:"pred"`
	}{"not", n.pred})
}

// UnmarshalPredicate decodes a tagged predicate node.
func UnmarshalPredicate(data []byte) (Predicate, error) {
	var head struct {
		Op string `json:"op"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Op {
	case "eq", "ne", "gt", "ge", "lt", "le":
		var dto struct {
			Field string `json:"field"`
			Value any    `json:"value"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		return cmp{field: dto.Field, op: head.Op, value: dto.Value}, nil
	case "in":
		var dto struct {
			Field  string `json:"field"`
			Values []any  `json:"values"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		return in{field: dto.Field, values: dto.Values}, nil
	case "and", "or":
		var dto struct {
			Preds []json.RawMessage `json:"preds"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		var preds []Predicate
		for _, raw := range dto.Preds {
			pred, err := UnmarshalPredicate(raw)
			if err != nil {
				return nil, err
			}
			preds = append(preds, pred)
		}
		return group{op: head.Op, preds: preds}, nil
	case "not":
		var dto struct {
			Pred json.RawMessage `json:"pred"`
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, err
		}
		sub, err := UnmarshalPredicate(dto.Pred)
		if err != nil {
			return nil, err
		}
		return not{pred: sub}, nil
	default:
		return nil, fmt.Errorf("unknown predicate op %q", head.Op)
	}
}
