// Package mocks provides gomock implementations of the site ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockSiteRepository(ctrl)
//	repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(site, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=site_repository_mock.go github.com/target/annotator-store/internal/ports SiteRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=site_cache_mock.go github.com/target/annotator-store/internal/ports SiteCache
