package client

import (
	"context"
	"scb/src/models"
	"scb/src/types"
)

// Auth owns the three session mutations the platform allows: sign-in,
// sign-out, and profile self-update. No other component writes the session.
type Auth struct {
	gw      *Gateway
	session *SessionStore
	cache   *Cache
}

func NewAuth(gw *Gateway, session *SessionStore, cache *Cache) *Auth {
	return &Auth{gw: gw, session: session, cache: cache}
}

type loginEnvelope struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

func (a *Auth) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, validationErr("email and password are required")
	}
	body := types.LoginRequestBody{Email: email, Password: password}
	var res loginEnvelope
	if err := a.gw.Post(ctx, "/auth/login", &body, &res); err != nil {
		return nil, err
	}
	if err := a.session.SetSession(res.User, res.Token); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (a *Auth) Register(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return validationErr("name, email and password are required")
	}
	body := types.RegisterRequestBody{Name: name, Email: email, Password: password}
	return a.gw.Post(ctx, "/auth/register", &body, nil)
}

// Logout clears the persisted identity and every cached resource; nothing
// role-scoped may survive into the next session.
func (a *Auth) Logout() error {
	a.cache.Reset()
	return a.session.Clear()
}

type profileEnvelope struct {
	Message string      `json:"message"`
	Data    models.User `json:"data"`
}

// FetchProfile reads the profile through the cache and folds the result back
// into the session, which is how a server-side promotion to member reaches
// the client's role checks.
func (a *Auth) FetchProfile(ctx context.Context) (*models.User, error) {
	value, err := a.cache.GetFresh(ctx, Key{Resource: ResourceUserProfile}, func(ctx context.Context) (any, error) {
		var res profileEnvelope
		if err := a.gw.Get(ctx, "/users/profile", &res); err != nil {
			return nil, err
		}
		return res.Data, nil
	})
	if err != nil {
		return nil, err
	}
	user := value.(models.User)
	if err := a.session.UpdateProfile(user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *Auth) UpdateProfile(ctx context.Context, name, profileImage string) (*models.User, error) {
	body := types.UpdateProfileRequestBody{Name: name, ProfileImage: profileImage}
	var res profileEnvelope
	if err := a.gw.Put(ctx, "/users/profile", &body, &res); err != nil {
		return nil, err
	}
	a.cache.Apply(MutationUpdateProfile)
	if err := a.session.UpdateProfile(res.Data); err != nil {
		return nil, err
	}
	return &res.Data, nil
}
