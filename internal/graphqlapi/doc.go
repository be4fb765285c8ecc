// Package graphqlapi is the thin GraphQL facade over identity, adhoc,
// session, and lobby: a hand-written graphql-go schema whose resolvers do
// argument plumbing and auth/context lookups only, never business logic.
package graphqlapi
