package graphql

import (
	"context"

	"github.com/graphql-go/graphql"
)

// ExecuteQuery executes a GraphQL query against a schema
func ExecuteQuery(ctx context.Context, schema graphql.Schema, query string) *graphql.Result {
	return ExecuteQueryWithVariables(ctx, schema, query, nil)
}

// ExecuteQueryWithVariables executes a GraphQL query with variables
func ExecuteQueryWithVariables(ctx context.Context, schema graphql.Schema, query string, variables map[string]any) *graphql.Result {
	params := graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       ctx,
	}
	if len(variables) > 0 {
		params.VariableValues = variables
	}
	return graphql.Do(params)
}
