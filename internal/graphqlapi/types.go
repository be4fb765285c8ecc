package graphqlapi

import (
	"github.com/graphql-go/graphql"

	"lobbyd/internal/identity"
	"lobbyd/internal/lobby"
)

// Every field below resolves explicitly against a concrete Go type rather
// than relying on graphql-go's reflection-based default resolver, so field
// names (GraphQL "id" vs. Go "ID") never depend on casing conventions lining
// up by accident.

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				u, _ := p.Source.(identity.User)
				return u.ID, nil
			},
		},
		"nickname": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				u, _ := p.Source.(identity.User)
				return u.Nickname, nil
			},
		},
	},
})

var adhocCredentialType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AdhocCredential",
	Fields: graphql.Fields{
		"user": &graphql.Field{
			Type: graphql.NewNonNull(userType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				c, _ := p.Source.(adhocCredentialResult)
				return c.User, nil
			},
		},
		"token": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				c, _ := p.Source.(adhocCredentialResult)
				return c.Token, nil
			},
		},
	},
})

// lobbyGameView adapts lobby.LobbyGame for the schema: "players" flattens
// the two optional seats into an ordered list, dropping empty ones.
type lobbyGameView struct {
	ID        string
	CreatedBy string
	Player1   *string
	Player2   *string
}

var lobbyGameType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LobbyGame",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				g, _ := p.Source.(*lobbyGameView)
				return g.ID, nil
			},
		},
		"createdBy": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				g, _ := p.Source.(*lobbyGameView)
				return g.CreatedBy, nil
			},
		},
		"players": &graphql.Field{
			Type:        graphql.NewList(graphql.NewNonNull(graphql.ID)),
			Description: "Seated players in seat order; empty seats are omitted.",
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				g, _ := p.Source.(*lobbyGameView)
				var out []string
				if g.Player1 != nil {
					out = append(out, *g.Player1)
				}
				if g.Player2 != nil {
					out = append(out, *g.Player2)
				}
				return out, nil
			},
		},
	},
})

var gameType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Game",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				g, _ := p.Source.(*lobby.Game)
				return g.ID, nil
			},
		},
		"createdBy": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				g, _ := p.Source.(*lobby.Game)
				return g.CreatedBy, nil
			},
		},
		"player1": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				g, _ := p.Source.(*lobby.Game)
				return g.Player1, nil
			},
		},
		"player2": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				g, _ := p.Source.(*lobby.Game)
				return g.Player2, nil
			},
		},
	},
})
