// Package jwt issues and verifies the access tokens used for
// authentication. It provides typed claims, an HS512 signer, and
// context helpers for carrying the authenticated user through a
// request.
package jwt
