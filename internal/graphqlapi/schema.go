package graphqlapi

import "github.com/graphql-go/graphql"

// NewSchema builds the hand-written schema wired to api's resolvers. There
// is no codegen: every type (types.go) and resolver (resolvers.go) is written out explicitly,
// matching the reference repo's preference for small, auditable surfaces
// over generated ones.
func NewSchema(api *API) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"lobbyGame": &graphql.Field{
				Type: lobbyGameType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: api.fetchLobby,
			},
			"game": &graphql.Field{
				Type: gameType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: api.fetchGame,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createAdhoc": &graphql.Field{
				Type: graphql.NewNonNull(adhocCredentialType),
				Args: graphql.FieldConfigArgument{
					"nickname": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: api.createAdhoc,
			},
			"createGame": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: api.createGame,
			},
			"joinGame": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Args: graphql.FieldConfigArgument{
					"gameId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: api.joinGame,
			},
			"startGame": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Args: graphql.FieldConfigArgument{
					"gameId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: api.startGame,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
