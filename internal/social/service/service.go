package service

import (
	"context"
	"errors"
	"time"

	"github.com/vincentyono/icp-smart-contract/internal/common/clock"
	commoncrypto "github.com/vincentyono/icp-smart-contract/internal/common/crypto"
	"github.com/vincentyono/icp-smart-contract/internal/common/jwtverify"
	"github.com/vincentyono/icp-smart-contract/internal/common/logger"
	contentdomain "github.com/vincentyono/icp-smart-contract/internal/content/domain"
	contentrepo "github.com/vincentyono/icp-smart-contract/internal/content/repository"
	"github.com/vincentyono/icp-smart-contract/internal/session"
	userdomain "github.com/vincentyono/icp-smart-contract/internal/user/domain"
	userrepo "github.com/vincentyono/icp-smart-contract/internal/user/repository"
)

type AuthzMode string

const (
	// AuthzUser accepts any well-formed id of an existing user.
	AuthzUser AuthzMode = "user"
	// AuthzSession also requires the active session to belong to that user.
	AuthzSession AuthzMode = "session"
)

const (
	MsgSignedIn        = "successfully signed in"
	MsgSignedOut       = "successfully signed out"
	MsgContentLiked    = "successfully liked content"
	MsgContentDisliked = "successfully disliked content"
)

type Config struct {
	AuthzMode       AuthzMode
	SessionSecret   string
	SessionTokenTTL time.Duration
}

type SignInResult struct {
	Message string
	Token   string
	Session session.Session
}

type SocialService struct {
	users       userrepo.Repository
	contents    contentrepo.Repository
	gate        *session.Gate
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	validator   *InputValidator
	events      EventPublisher
	clock       clock.Clock
	cfg         Config
	log         *logger.Logger

	issueToken func(secret []byte, claims jwtverify.Claims, issuedAt time.Time, ttl time.Duration) (string, error)
}

func NewSocialService(
	users userrepo.Repository,
	contents contentrepo.Repository,
	gate *session.Gate,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	events EventPublisher,
	clk clock.Clock,
	cfg Config,
	log *logger.Logger,
) *SocialService {
	if events == nil {
		events = NopPublisher{}
	}
	if cfg.AuthzMode == "" {
		cfg.AuthzMode = AuthzUser
	}
	return &SocialService{
		users:       users,
		contents:    contents,
		gate:        gate,
		hasher:      hasher,
		idGenerator: idGenerator,
		validator:   NewInputValidator(),
		events:      events,
		clock:       clk,
		cfg:         cfg,
		log:         log,
		issueToken:  jwtverify.Issue,
	}
}

func (s *SocialService) AuthzMode() AuthzMode {
	return s.cfg.AuthzMode
}

func (s *SocialService) Register(ctx context.Context, username, password string) (userdomain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := s.validator.Validate(credentialsInput{Username: username, Password: password}); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return userdomain.User{}, err
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, commoncrypto.ErrPasswordTooLong) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "register_validation_failed",
			}).Warnf("register validation failed: %v", err)
			return userdomain.User{}, ErrInvalidPassword.WithCause(err)
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return userdomain.User{}, newInternalError("PASSWORD_HASH_FAILED", "failed to process password", err)
	}

	id, err := s.newID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.User{}, err
	}

	user := userdomain.User{
		ID:        userdomain.ID(id),
		Username:  username,
		Password:  stored,
		CreatedAt: s.clock.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.User{}, storeError(err)
	}

	incrementUsersRegistered()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return user, nil
}

func (s *SocialService) SignIn(ctx context.Context, username, password string) (SignInResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "signin_attempt",
	}).Info("signin attempt")

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			recordSignIn("no_such_user")
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "signin_no_such_user",
			}).Warn("signin failed: no such user")
			return SignInResult{}, ErrNoSuchUser
		}
		recordSignIn("error")
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "signin_lookup_failed",
		}).Errorf("signin failed: %v", err)
		return SignInResult{}, storeError(err)
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		recordSignIn("bad_credentials")
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"user_id":  string(user.ID),
			"action":   "signin_bad_credentials",
		}).Warn("signin failed: bad credentials")
		return SignInResult{}, ErrBadCredentials
	}

	sess, err := s.gate.NewSession(user)
	if err != nil {
		recordSignIn("error")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "signin_session_failed",
		}).Errorf("signin failed: session id generation error: %v", err)
		return SignInResult{}, ErrIDGenerationFailed.WithCause(err)
	}

	token, err := s.issueToken([]byte(s.cfg.SessionSecret), jwtverify.Claims{
		UserID:    string(user.ID),
		Username:  user.Username,
		SessionID: sess.ID,
	}, sess.StartedAt, s.cfg.SessionTokenTTL)
	if err != nil {
		recordSignIn("error")
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "signin_token_failed",
		}).Errorf("signin token issue failed: %v", err)
		return SignInResult{}, newInternalError("TOKEN_ISSUE_FAILED", "failed to issue session token", err)
	}

	if replaced := s.gate.Activate(sess); replaced {
		incrementSessionReplacements()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "signin_session_replaced",
		}).Warn("signin replaced the active session")
	}
	setSessionActive(true)

	recordSignIn("success")
	s.log.WithFields(ctx, logger.Fields{
		"user_id":    string(user.ID),
		"session_id": sess.ID,
		"action":     "signin_success",
	}).Info("signin success")

	return SignInResult{
		Message: MsgSignedIn,
		Token:   token,
		Session: sess,
	}, nil
}

func (s *SocialService) SignOut(ctx context.Context) (string, error) {
	ended, err := s.gate.SignOut()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "signout_not_signed_in",
		}).Warn("signout failed: no active session")
		return "", ErrNotSignedIn
	}

	setSessionActive(false)
	s.log.WithFields(ctx, logger.Fields{
		"user_id":    string(ended.User.ID),
		"session_id": ended.ID,
		"action":     "signout_success",
	}).Info("signout success")

	return MsgSignedOut, nil
}

func (s *SocialService) CurrentSession(ctx context.Context) (session.Session, error) {
	sess, ok := s.gate.Current()
	if !ok {
		return session.Session{}, ErrNotSignedIn
	}
	return sess, nil
}

func (s *SocialService) GetContents(ctx context.Context) ([]contentdomain.Content, error) {
	all, err := s.contents.List(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "get_contents_failed",
		}).Errorf("get contents failed: %v", err)
		return nil, storeError(err)
	}
	if all == nil {
		all = []contentdomain.Content{}
	}
	return all, nil
}

func (s *SocialService) GetContent(ctx context.Context, contentID string) (contentdomain.Content, error) {
	if err := s.validator.Validate(contentLookupInput{ContentID: contentID}); err != nil {
		return contentdomain.Content{}, err
	}

	content, err := s.contents.FindByID(ctx, contentdomain.ID(commoncrypto.CanonicalID(contentID)))
	if err != nil {
		return contentdomain.Content{}, s.contentError(ctx, err, contentID, "get_content_failed")
	}
	return content, nil
}

func (s *SocialService) LikeContent(ctx context.Context, contentID, userID string) (string, error) {
	content, err := s.react(ctx, contentID, userID, "like", s.contents.ApplyLike)
	if err != nil {
		return "", err
	}
	s.events.Publish(ctx, contentdomain.Event{Type: contentdomain.EventContentLiked, Content: content})
	return MsgContentLiked, nil
}

func (s *SocialService) DislikeContent(ctx context.Context, contentID, userID string) (string, error) {
	content, err := s.react(ctx, contentID, userID, "dislike", s.contents.ApplyDislike)
	if err != nil {
		return "", err
	}
	s.events.Publish(ctx, contentdomain.Event{Type: contentdomain.EventContentDisliked, Content: content})
	return MsgContentDisliked, nil
}

func (s *SocialService) react(
	ctx context.Context,
	contentID, userID, kind string,
	apply func(context.Context, contentdomain.ID) (contentdomain.Content, error),
) (contentdomain.Content, error) {
	fields := logger.Fields{
		"content_id": contentID,
		"user_id":    userID,
		"action":     kind + "_attempt",
	}
	s.log.WithFields(ctx, fields).Debugf("%s attempt", kind)

	if err := s.validator.Validate(reactionInput{ContentID: contentID, UserID: userID}); err != nil {
		fields["action"] = kind + "_validation_failed"
		s.log.WithFields(ctx, fields).Warnf("%s validation failed: %v", kind, err)
		return contentdomain.Content{}, err
	}
	contentID = commoncrypto.CanonicalID(contentID)

	if _, err := s.authorize(ctx, userID); err != nil {
		return contentdomain.Content{}, err
	}

	content, err := apply(ctx, contentdomain.ID(contentID))
	if err != nil {
		return contentdomain.Content{}, s.contentError(ctx, err, contentID, kind+"_failed")
	}

	incrementReactions(kind)
	fields["action"] = kind + "_success"
	fields["version"] = content.Version
	s.log.WithFields(ctx, fields).Infof("%s applied", kind)

	return content, nil
}

func (s *SocialService) PostContent(ctx context.Context, text, userID string) (contentdomain.Content, error) {
	if err := s.validator.Validate(postContentInput{UserID: userID, Text: text}); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "post_content_validation_failed",
		}).Warnf("post content validation failed: %v", err)
		return contentdomain.Content{}, err
	}

	user, err := s.authorize(ctx, userID)
	if err != nil {
		return contentdomain.Content{}, err
	}

	id, err := s.newID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "post_content_id_generation_failed",
		}).Errorf("post content failed: %v", err)
		return contentdomain.Content{}, err
	}

	content := contentdomain.Content{
		ID:        contentdomain.ID(id),
		UserID:    user.ID,
		Text:      text,
		Comments:  []string{},
		Timestamp: uint64(s.clock.Now().UnixNano()),
		Version:   1,
	}

	if err := s.contents.Create(ctx, content); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "post_content_create_failed",
		}).Errorf("post content failed: %v", err)
		return contentdomain.Content{}, storeError(err)
	}

	incrementContentsPosted()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":    userID,
		"content_id": id,
		"action":     "post_content_success",
	}).Info("content posted")

	s.events.Publish(ctx, contentdomain.Event{Type: contentdomain.EventContentPosted, Content: content})
	return content, nil
}

func (s *SocialService) PostComment(ctx context.Context, contentID, text, userID string) (contentdomain.Content, error) {
	if err := s.validator.Validate(postCommentInput{ContentID: contentID, UserID: userID, Text: text}); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"content_id": contentID,
			"user_id":    userID,
			"action":     "post_comment_validation_failed",
		}).Warnf("post comment validation failed: %v", err)
		return contentdomain.Content{}, err
	}

	contentID = commoncrypto.CanonicalID(contentID)

	if _, err := s.authorize(ctx, userID); err != nil {
		return contentdomain.Content{}, err
	}

	content, err := s.contents.AppendComment(ctx, contentdomain.ID(contentID), text)
	if err != nil {
		return contentdomain.Content{}, s.contentError(ctx, err, contentID, "post_comment_failed")
	}

	incrementCommentsPosted()
	s.log.WithFields(ctx, logger.Fields{
		"content_id": contentID,
		"user_id":    userID,
		"comments":   len(content.Comments),
		"action":     "post_comment_success",
	}).Info("comment posted")

	s.events.Publish(ctx, contentdomain.Event{Type: contentdomain.EventCommentPosted, Content: content})
	return content, nil
}

// authorize resolves userID according to the configured mode. The id must
// already be structurally valid.
func (s *SocialService) authorize(ctx context.Context, userID string) (userdomain.User, error) {
	userID = commoncrypto.CanonicalID(userID)
	user, err := s.users.FindByID(ctx, userdomain.ID(userID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": userID,
				"action":  "authorize_unknown_user",
			}).Warn("authorization failed: unknown user")
			return userdomain.User{}, ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "authorize_lookup_failed",
		}).Errorf("authorization lookup failed: %v", err)
		return userdomain.User{}, storeError(err)
	}

	if s.cfg.AuthzMode != AuthzSession {
		return user, nil
	}

	sess, ok := s.gate.Current()
	if !ok {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "authorize_not_signed_in",
		}).Warn("authorization failed: no active session")
		return userdomain.User{}, ErrNotSignedIn
	}
	if sess.User.ID != user.ID {
		s.log.WithFields(ctx, logger.Fields{
			"user_id":         userID,
			"session_user_id": string(sess.User.ID),
			"action":          "authorize_session_mismatch",
		}).Warn("authorization failed: session belongs to another user")
		return userdomain.User{}, ErrSessionMismatch
	}

	return user, nil
}

func (s *SocialService) contentError(ctx context.Context, err error, contentID, action string) error {
	if errors.Is(err, contentrepo.ErrContentNotFound) {
		s.log.WithFields(ctx, logger.Fields{
			"content_id": contentID,
			"action":     action,
		}).Warn("content not found")
		return ErrContentNotFound
	}
	s.log.WithFields(ctx, logger.Fields{
		"content_id": contentID,
		"action":     action,
	}).Errorf("content store failure: %v", err)
	return storeError(err)
}

// newID fails rather than retrying when the generator misbehaves.
func (s *SocialService) newID() (string, error) {
	id, err := s.idGenerator.NewID()
	if err != nil {
		return "", ErrIDGenerationFailed.WithCause(err)
	}
	if !commoncrypto.ValidateID(id) {
		return "", ErrIDGenerationFailed
	}
	return id, nil
}
