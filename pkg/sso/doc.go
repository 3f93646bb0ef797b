// Package sso implements OpenID Connect login: the browser is redirected
// to the identity provider, the callback verifies the returned ID token,
// and a matching local account is found or provisioned before a regular
// session token pair is issued.
package sso
