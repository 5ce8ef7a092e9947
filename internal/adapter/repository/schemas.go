package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/pkg/filterexpr"
)

// wordListParams is populated from the filter and order_by of a word list request.
type wordListParams struct {
	Language      *string
	Languages     []string
	Status        *string
	Statuses      []string
	TextPrefix    *string
	TextContains  *string
	Problematic   *bool
	Favorite      *bool
	Tag           *string
	Collection    *uuid.UUID
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	orderParams
}

var listWordsSchema = filterexpr.ResourceSchema{
	Filter: map[string]filterexpr.FilterField{
		"language": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Language",
				filterexpr.OpIN: "Languages",
			},
		},
		"activity_status": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpEQ: "Status",
				filterexpr.OpIN: "Statuses",
			},
			Values: []string{
				string(entity.ActivityInactive),
				string(entity.ActivityActive),
				string(entity.ActivityMastered),
			},
		},
		"text": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpSW:       "TextPrefix",
				filterexpr.OpCONTAINS: "TextContains",
			},
		},
		"is_problematic": {
			Kind: filterexpr.KindBool,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Problematic"},
		},
		"favorite": {
			Kind: filterexpr.KindBool,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Favorite"},
		},
		"tag": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Tag"},
		},
		"collection": {
			Kind: filterexpr.KindUUID,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Collection"},
		},
		"created_at": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "CreatedAfter",
				filterexpr.OpLTE: "CreatedBefore",
			},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "created_at",
		DefaultPrimaryDesc: true,
		FallbackKey:        "id",
		FallbackDesc:       false,
		Fields: map[string]filterexpr.OrderField{
			"created_at":        {Expr: "created_at", Nulls: "last"},
			"updated_at":        {Expr: "updated_at", Nulls: "last"},
			"last_exercised_at": {Expr: "last_exercised_at", Nulls: "last"},
			"text":              {Expr: "normalized", Nulls: "last"},
			"id":                {Expr: "id", Nulls: "last"},
		},
	},
}

// itemListParams is populated from the filter and order_by of a nested item list request.
type itemListParams struct {
	Language      *string
	TextPrefix    *string
	TextContains  *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	orderParams
}

func itemSchema(textColumn string, hasLanguage bool) filterexpr.ResourceSchema {
	filter := map[string]filterexpr.FilterField{
		"text": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpSW:       "TextPrefix",
				filterexpr.OpCONTAINS: "TextContains",
			},
		},
		"created_at": {
			Kind: filterexpr.KindTimestamp,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpGTE: "CreatedAfter",
				filterexpr.OpLTE: "CreatedBefore",
			},
		},
	}
	if hasLanguage {
		filter["language"] = filterexpr.FilterField{
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Language"},
		}
	}
	return filterexpr.ResourceSchema{
		Filter: filter,
		Order: filterexpr.OrderSchema{
			DefaultPrimary:     "created_at",
			DefaultPrimaryDesc: true,
			FallbackKey:        "id",
			Fields: map[string]filterexpr.OrderField{
				"created_at": {Expr: "created_at", Nulls: "last"},
				"updated_at": {Expr: "updated_at", Nulls: "last"},
				"text":       {Expr: textColumn, Nulls: "last"},
				"id":         {Expr: "id", Nulls: "last"},
			},
		},
	}
}
