package graphqlapi

import (
	"errors"

	"github.com/graphql-go/graphql"

	"lobbyd/internal/adhoc"
	"lobbyd/internal/authmw"
	"lobbyd/internal/identity"
	"lobbyd/internal/lobby"
)

// API bundles the services the resolvers plumb arguments to.
type API struct {
	Identity identity.Store
	AdHoc    *adhoc.Service
	Lobby    *lobby.Service
}

var errNoQuerier = errors.New("graphqlapi: no transaction in request context")
var errNoSession = errors.New("graphqlapi: authentication required")

func (a *API) createAdhoc(p graphql.ResolveParams) (interface{}, error) {
	q, ok := authmw.QuerierFromContext(p.Context)
	if !ok {
		return nil, errNoQuerier
	}
	nickname, _ := p.Args["nickname"].(string)

	userID, err := a.Identity.Create(p.Context, q, nickname)
	if err != nil {
		return nil, err
	}
	token, err := a.AdHoc.Issue(p.Context, q, userID)
	if err != nil {
		return nil, err
	}

	return adhocCredentialResult{
		User:  identity.User{ID: userID, Nickname: nickname},
		Token: token,
	}, nil
}

type adhocCredentialResult struct {
	User  identity.User
	Token string
}

func (a *API) createGame(p graphql.ResolveParams) (interface{}, error) {
	q, ok := authmw.QuerierFromContext(p.Context)
	if !ok {
		return nil, errNoQuerier
	}
	sess, ok := authmw.SessionFromContext(p.Context)
	if !ok {
		return nil, errNoSession
	}
	return a.Lobby.CreateGame(p.Context, q, sess.UserID)
}

func (a *API) joinGame(p graphql.ResolveParams) (interface{}, error) {
	q, ok := authmw.QuerierFromContext(p.Context)
	if !ok {
		return nil, errNoQuerier
	}
	sess, ok := authmw.SessionFromContext(p.Context)
	if !ok {
		return nil, errNoSession
	}
	gameID, _ := p.Args["gameId"].(string)
	return a.Lobby.JoinGame(p.Context, q, gameID, sess.UserID)
}

func (a *API) startGame(p graphql.ResolveParams) (interface{}, error) {
	q, ok := authmw.QuerierFromContext(p.Context)
	if !ok {
		return nil, errNoQuerier
	}
	if _, ok := authmw.SessionFromContext(p.Context); !ok {
		return nil, errNoSession
	}
	gameID, _ := p.Args["gameId"].(string)
	return a.Lobby.StartGame(p.Context, q, gameID)
}

func (a *API) fetchLobby(p graphql.ResolveParams) (interface{}, error) {
	q, ok := authmw.QuerierFromContext(p.Context)
	if !ok {
		return nil, errNoQuerier
	}
	gameID, _ := p.Args["id"].(string)
	g, err := a.Lobby.FetchLobby(p.Context, q, gameID)
	if err != nil || g == nil {
		return nil, err
	}
	return &lobbyGameView{ID: g.ID, CreatedBy: g.CreatedBy, Player1: g.Player1, Player2: g.Player2}, nil
}

func (a *API) fetchGame(p graphql.ResolveParams) (interface{}, error) {
	q, ok := authmw.QuerierFromContext(p.Context)
	if !ok {
		return nil, errNoQuerier
	}
	gameID, _ := p.Args["id"].(string)
	g, err := a.Lobby.FetchGame(p.Context, q, gameID)
	if err != nil || g == nil {
		return nil, err
	}
	return g, nil
}
