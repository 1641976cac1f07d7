package repositories

import (
	"go.uber.org/dig"

	"github.com/campusware/gitread/internal/domain/entities"
	domainRepos "github.com/campusware/gitread/internal/domain/repositories"
	gitRepo "github.com/campusware/gitread/internal/infrastructure/repositories/git"
	memoryRepo "github.com/campusware/gitread/internal/infrastructure/repositories/memory"
	redisRepo "github.com/campusware/gitread/internal/infrastructure/repositories/redis"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []any{
		gitRepo.NewExecutorRepository,
		gitRepo.NewMirrorRepository,
		gitRepo.NewTreeRepository,
		gitRepo.NewCredentialsRepository,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *gitRepo.ExecutorRepository) domainRepos.ExecutorRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *gitRepo.MirrorRepository) domainRepos.MirrorRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *gitRepo.TreeRepository) domainRepos.TreeRepository {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *gitRepo.CredentialsRepository) domainRepos.CredentialsRepository {
		return impl
	}); err != nil {
		return err
	}

	// The response cache is shared infrastructure: Redis when configured,
	// otherwise the in-process fallback.
	return container.Provide(func(settings *entities.Settings) domainRepos.CacheRepository {
		if settings.Redis.Addr != "" {
			return redisRepo.NewCacheRepository(redisRepo.NewClient(settings))
		}
		return memoryRepo.NewCacheRepository()
	})
}
