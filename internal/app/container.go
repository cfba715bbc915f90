package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"pathexplorer/internal/config"
	"pathexplorer/internal/database"
	dbpostgres "pathexplorer/internal/database/postgres"
	"pathexplorer/internal/infrastructure/cache"
	"pathexplorer/internal/pkg/jwt"
	"pathexplorer/internal/repository"
	"pathexplorer/internal/usecase"
	ucauth "pathexplorer/internal/usecase/auth"
	"pathexplorer/internal/wizard"
	"pathexplorer/internal/ws"
)

var errDatabaseRequired = errors.New("database configuration is required (DB_HOST, DB_NAME, DB_USER)")

// Container owns every long lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB      database.DB
	Redis   *cache.Redis
	KV      wizard.KV
	Limiter fiber.Storage
	Hub     *ws.Hub
	JWT     jwt.Service
	Schema  *wizard.Schema

	Auth          usecase.AuthUsecase
	Users         usecase.UserUsecase
	Signup        usecase.SignupUsecase
	EmployeeSkill usecase.EmployeeSkillUsecase
	ProjectRole   usecase.ProjectRoleUsecase
	Assignments   usecase.AssignmentUsecase
	Compatibility usecase.CompatibilityUsecase
	SkillCatalog  usecase.SkillCatalogUsecase
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Database.Enabled() {
		return nil, errDatabaseRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger.Named("db"))
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}

	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedis(ctx, cfg.Redis, logger.Named("redis"))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		c.Redis = rdb
		c.KV = rdb
		c.Limiter = cache.NewLimiterStorage(rdb.Client(), "pathexplorer:", logger.Named("ratelimit"))
	} else {
		logger.Warn("REDIS_HOST not set, sign-up state is kept in process memory")
		c.KV = cache.NewMemory()
	}

	if err := c.wire(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wire() error {
	cfg := c.Config

	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	schema, err := wizard.NewSignUpSchema(wizard.NewRuleValidator())
	if err != nil {
		return fmt.Errorf("sign-up schema: %w", err)
	}
	c.Schema = schema

	c.Hub = ws.NewHub(c.Logger.Named("ws"))
	notifier := ws.NewNotifier(c.Hub, c.Logger.Named("ws"))

	userRepo := repository.NewPostgresUserRepository(c.DB)
	skillRepo := repository.NewPostgresEmployeeSkillRepository(c.DB)
	roleRepo := repository.NewPostgresProjectRoleRepository(c.DB)

	auth := usecase.NewAuthUsecase(ucauth.NewService(userRepo), userRepo, c.JWT)
	c.Auth = auth
	c.Users = usecase.NewUserUsecase(userRepo)

	signup, err := usecase.NewSignupUsecase(
		schema,
		wizard.NewKVSessionStore(c.KV, cfg.Signup.SessionTTL),
		wizard.NewKVFragmentStore(c.KV, cfg.Signup.FragmentTTL),
		usecase.NewRegistrationSubmitter(auth, c.Logger.Named("registration")),
		cfg.Signup.SubmitTimeout,
		c.Logger.Named("signup"),
	)
	if err != nil {
		return fmt.Errorf("sign-up usecase: %w", err)
	}
	c.Signup = signup

	c.EmployeeSkill = usecase.NewEmployeeSkillUsecase(userRepo, skillRepo, notifier)
	c.ProjectRole = usecase.NewProjectRoleUsecase(userRepo, roleRepo, notifier)
	c.Assignments = usecase.NewAssignmentUsecase(userRepo, roleRepo, repository.NewPostgresAssignmentRepository(c.DB), notifier)
	c.Compatibility = usecase.NewCompatibilityUsecase(userRepo, skillRepo, roleRepo)
	c.SkillCatalog = usecase.NewSkillCatalogUsecase(
		repository.NewPostgresSkillCatalogRepository(c.DB),
		c.KV,
		c.Logger.Named("skills"),
	)
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	c.Hub.Stop()

	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
