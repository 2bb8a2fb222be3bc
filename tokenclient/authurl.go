package tokenclient

import "golang.org/x/oauth2"

// AuthorizationURL builds the URL a user is sent to for the Sign in with
// Apple authorization step. It only constructs the URL; performing the
// redirect and receiving the callback are the caller's responsibility.
//
// Apple requires response_mode=form_post whenever the name or email scopes
// are requested, so the parameter is added as soon as any scope is present.
func (c *Client) AuthorizationURL(state string, scopes []string) string {
	cfg := oauth2.Config{
		ClientID:    c.clientID,
		RedirectURL: c.redirectURI,
		Scopes:      scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.authorizeURL,
			TokenURL: c.tokenURL,
		},
	}

	var opts []oauth2.AuthCodeOption
	if len(scopes) > 0 {
		opts = append(opts, oauth2.SetAuthURLParam("response_mode", "form_post"))
	}

	return cfg.AuthCodeURL(state, opts...)
}
