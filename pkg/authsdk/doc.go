/*
Package authsdk is a client for the CMS authentication service and holds the
request and response types shared with the server.

# Overview

Every endpoint answers with the envelope

	{"success": true, "message": "...", "data": ...}

and the SDK unwraps data, or turns a failure into an *APIError carrying the
status code and message.

# Sessions

	client := authsdk.NewSDKClient("http://localhost:8080")

	session, err := client.AuthenticateWithPassword(ctx, "editor01", "correct-horse")
	if authsdk.IsUnauthorized(err) {
		// wrong username or password
	}

	me, err := session.Profile(ctx)

# Refresh

Access tokens are refreshed by presenting the token together with its refresh
signature. The service only issues a new pair once the current token is close
to expiring, so most refreshes return the pair unchanged:

	rotated, err := session.Refresh(ctx)

Changing the password revokes every token issued before. Session.ChangePassword
stores the fresh pair the service returns.
*/
package authsdk
