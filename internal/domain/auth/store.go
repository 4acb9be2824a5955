package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pet-supply-store/internal/platform/logger"
	"pet-supply-store/internal/ports/storage"

	"github.com/google/uuid"
)

// Store es el estado de auth de una sesión: status de signup/signin
// más la sesión vigente, sincronizada con el storage persistido.
// Invariante: tras completar cualquier operación, presencia de sesión
// en memoria y en storage coinciden.
type Store struct {
	api      UsersAPI
	kv       storage.Store
	log      logger.Logger
	newToken func() string

	mu        sync.Mutex
	signup    RequestState
	signin    RequestState
	session   Session
	isLogin   bool
	signupGen uint64
	signinGen uint64
}

func NewStore(api UsersAPI, kv storage.Store, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		api:      api,
		kv:       kv,
		log:      log,
		newToken: uuid.NewString,
		signup:   RequestState{Status: StatusIdle},
		signin:   RequestState{Status: StatusIdle},
	}
	s.hydrate()
	return s
}

// hydrate reconstruye la sesión desde el storage (el cliente web hace
// isLogin = !!storage.getItem("token")).
func (s *Store) hydrate() {
	ctx := context.Background()

	token, err := s.kv.Get(ctx, KeyToken)
	if err != nil || strings.TrimSpace(token) == "" {
		return
	}
	email, _ := s.kv.Get(ctx, KeyEmail)
	name, _ := s.kv.Get(ctx, KeyName)

	s.session = Session{Token: token, Email: email, Name: name}
	s.isLogin = true
}

type SignUpInput struct {
	FullName string
	Email    string
	Phone    string
	Gender   string
	Password string
	Image    string
}

// SignUp registra un usuario nuevo contra el backend mock.
// Duplicado de email => ErrEmailExists y la lista de usuarios queda
// intacta (el chequeo va antes del POST).
func (s *Store) SignUp(ctx context.Context, in SignUpInput) (User, error) {
	if strings.TrimSpace(in.FullName) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Password) == "" {
		return User{}, fmt.Errorf("%w: fullname, email and password are required", ErrInvalidInput)
	}

	gen := s.begin(&s.signup, &s.signupGen)

	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return User{}, s.failSignup(gen, fmt.Errorf("signup failed: %w", err))
	}

	for _, u := range users {
		if u.Email == in.Email {
			return User{}, s.failSignup(gen, ErrEmailExists)
		}
	}

	created, err := s.api.CreateUser(ctx, User{
		FullName: strings.TrimSpace(in.FullName),
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Gender:   strings.TrimSpace(in.Gender),
		Password: in.Password,
		Image:    in.Image,
	})
	if err != nil {
		return User{}, s.failSignup(gen, fmt.Errorf("signup failed: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.signupGen {
		return User{}, ErrSuperseded
	}
	s.signup = RequestState{Status: StatusSucceeded}

	// El cliente web persiste el email del registro exitoso.
	_ = s.kv.Set(ctx, KeyEmail, created.Email)

	return created, nil
}

// SignIn autentica contra el backend mock: exige exactamente un
// usuario con ese email+password, reusa su token o acuña uno nuevo,
// lo patchea al backend y persiste token/email/name juntos.
func (s *Store) SignIn(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	gen := s.begin(&s.signin, &s.signinGen)

	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return Session{}, s.failSignin(gen, fmt.Errorf("signin failed: %w", err))
	}

	var match *User
	matches := 0
	for i := range users {
		if users[i].Email == email && users[i].Password == password {
			match = &users[i]
			matches++
		}
	}
	if matches != 1 {
		return Session{}, s.failSignin(gen, ErrInvalidCredentials)
	}

	token := match.Token
	if strings.TrimSpace(token) == "" {
		token = s.newToken()
	}
	if err := s.api.AssignToken(ctx, match.ID, token); err != nil {
		return Session{}, s.failSignin(gen, fmt.Errorf("signin failed: %w", err))
	}

	sess := Session{Token: token, Email: match.Email, Name: match.FullName}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.signinGen {
		// Arrancó un signin más nuevo: este resultado no se aplica.
		return Session{}, ErrSuperseded
	}

	// Persistir y después reflejar en memoria, bajo el mismo lock:
	// ningún estado intermedio queda visible más allá del pending.
	if err := s.persistSession(ctx, sess); err != nil {
		s.signin = RequestState{Status: StatusFailed, Message: err.Error()}
		return Session{}, err
	}
	s.session = sess
	s.isLogin = true
	s.signin = RequestState{Status: StatusSucceeded}

	return sess, nil
}

// Logout limpia las tres claves persistidas y resetea el store a
// idle sin autenticar. Verificable inmediatamente: no hay pending.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{KeyToken, KeyEmail, KeyName} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}

	s.session = Session{}
	s.isLogin = false
	s.signup = RequestState{Status: StatusIdle}
	s.signin = RequestState{Status: StatusIdle}
	return nil
}

// Snapshot del estado para GET /auth/session.
type Snapshot struct {
	IsLogin bool         `json:"isLogin"`
	Session *Session     `json:"session,omitempty"`
	Signup  RequestState `json:"signup"`
	Signin  RequestState `json:"signin"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		IsLogin: s.isLogin,
		Signup:  s.signup,
		Signin:  s.signin,
	}
	if s.isLogin {
		sess := s.session
		snap.Session = &sess
	}
	return snap
}

func (s *Store) IsLogin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLogin
}

// begin marca pending y devuelve la generación de este request.
// Un request más viejo que termine después verá gen != actual.
func (s *Store) begin(state *RequestState, gen *uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	*gen++
	*state = RequestState{Status: StatusPending}
	return *gen
}

func (s *Store) failSignup(gen uint64, err error) error {
	return s.fail(&s.signup, &s.signupGen, gen, err)
}

func (s *Store) failSignin(gen uint64, err error) error {
	return s.fail(&s.signin, &s.signinGen, gen, err)
}

func (s *Store) fail(state *RequestState, latest *uint64, gen uint64, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != *latest {
		return ErrSuperseded
	}
	*state = RequestState{Status: StatusFailed, Message: err.Error()}
	return err
}

func (s *Store) persistSession(ctx context.Context, sess Session) error {
	if err := s.kv.Set(ctx, KeyToken, sess.Token); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeyEmail, sess.Email); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyName, sess.Name)
}
