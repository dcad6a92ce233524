package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Renal37/karigar-desk/internal/database"
	"github.com/Renal37/karigar-desk/internal/logger"
	"github.com/Renal37/karigar-desk/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserIsAlreadyRegistered = errors.New("оператор уже зарегистрирован")
	ErrUserIsNotExist          = errors.New("оператор не существует")
	ErrPasswordIsIncorrect     = errors.New("пароль неверен")
)

// AuthService учётные записи операторов стола заказов.
type AuthService struct {
	storage AuthStorage
}

type AuthStorage interface {
	CreateUser(ctx context.Context, user database.UserDB) (string, error)
	FindUser(ctx context.Context, login string) (*database.UserDB, error)
}

func NewAuthService(storage AuthStorage) *AuthService {
	return &AuthService{storage: storage}
}

// Register заводит оператора с хэшем пароля bcrypt.
func (auth *AuthService) Register(ctx context.Context, user models.UnknownUser) error {
	login, password, err := credentials(user)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка при хэшировании пароля: %w", err)
	}

	id, err := auth.storage.CreateUser(ctx, database.UserDB{User: models.User{Login: login, Hash: string(hash)}})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			return ErrUserIsAlreadyRegistered
		}
		return err
	}

	logger.Log.Info("оператор зарегистрирован", zap.String("login", login), zap.String("id", id))
	return nil
}

// Login проверяет пару логин и пароль.
func (auth *AuthService) Login(ctx context.Context, user models.UnknownUser) error {
	login, password, err := credentials(user)
	if err != nil {
		return err
	}

	found, err := auth.GetUser(ctx, login)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.Hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordIsIncorrect
		}
		return fmt.Errorf("ошибка при сравнении паролей: %w", err)
	}

	return nil
}

// GetUser ищет оператора по логину.
func (auth *AuthService) GetUser(ctx context.Context, login string) (*models.User, error) {
	user, err := auth.storage.FindUser(ctx, strings.TrimSpace(login))
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске оператора: %w", err)
	}
	if user == nil {
		return nil, ErrUserIsNotExist
	}

	return &user.User, nil
}

func credentials(user models.UnknownUser) (string, string, error) {
	login := strings.TrimSpace(models.StringValue(user.Login))
	password := models.StringValue(user.Password)
	if login == "" || password == "" {
		return "", "", invalid("нужны логин и пароль")
	}
	return login, password, nil
}
