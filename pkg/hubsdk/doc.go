/*
Package hubsdk holds the wire types of the campaign hub API and a small Go
client for it.

Request types carry a Validate method that the server runs before touching
any service, so clients can check input locally with the same rules:

	req := hubsdk.LoginRequest{Email: email, Password: pw}
	if err := req.Validate(); err != nil {
		return err
	}

	client := hubsdk.NewClient("http://localhost:8080")
	tokens, err := client.Login(ctx, req)
	if err != nil {
		return err
	}

	authed := client.WithToken(tokens.AccessToken)
	campaign, err := authed.CampaignAction(ctx, id, "pause")

# Errors

Every non-2xx response is returned as an *APIError carrying the decoded
ErrorResponse. Rate-limited calls (429) also carry the Retry-After value:

	if hubsdk.IsRateLimited(err) {
		var apiErr *hubsdk.APIError
		errors.As(err, &apiErr)
		time.Sleep(time.Duration(apiErr.RetryAfter) * time.Second)
	}

An expired access token is reported with IsTokenExpired so callers can use
Refresh instead of logging in again.
*/
package hubsdk
