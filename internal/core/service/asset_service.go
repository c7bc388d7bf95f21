package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/itamhq/itam-api/internal/core/domain"
	"github.com/itamhq/itam-api/internal/core/policy"
	"github.com/itamhq/itam-api/internal/core/ports"
)

type AssetService struct {
	repo  ports.AssetRepository
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewAssetService(repo ports.AssetRepository, sink ports.AuditSink, log zerolog.Logger) *AssetService {
	return &AssetService{repo: repo, audit: sink, log: log}
}

func (s *AssetService) Get(ctx context.Context, actor *domain.Actor, id int64) (*domain.Asset, error) {
	if err := policy.Check(actor, policy.Asset, policy.Read, policy.Target{ID: id}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *AssetService) List(ctx context.Context, actor *domain.Actor, page ports.Page) ([]*domain.Asset, error) {
	if err := policy.Check(actor, policy.Asset, policy.List, policy.Target{}); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, page.Normalize())
}

func (s *AssetService) Create(ctx context.Context, actor *domain.Actor, in domain.NewAsset) (*domain.Asset, error) {
	if err := policy.Check(actor, policy.Asset, policy.Create, policy.Target{}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Hostname) == "" {
		return nil, invalid("hostname is required")
	}
	if err := checkLengths(
		rule("hostname", in.Hostname, maxHostnameLen),
		ptrRule("serial", in.Serial, maxSerialLen),
		ptrRule("model", in.Model, maxModelLen),
		ptrRule("location", in.Location, maxLocationLen),
		rule("status", in.Status, maxStatusLen),
	); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.AssetStatusActive
	}

	asset, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("asset_id", asset.ID).Str("hostname", asset.Hostname).Msg("asset created")
	audit(s.audit, actor, policy.Asset, asset.ID, domain.AuditCreate)
	return asset, nil
}

func (s *AssetService) Update(ctx context.Context, actor *domain.Actor, id int64, patch domain.AssetPatch) (*domain.Asset, error) {
	if err := policy.Check(actor, policy.Asset, policy.Update, policy.Target{ID: id}); err != nil {
		return nil, err
	}
	if patch.Hostname.Set && (!patch.Hostname.Valid || strings.TrimSpace(patch.Hostname.Value) == "") {
		return nil, invalid("hostname cannot be empty")
	}
	if patch.Status.Set && (!patch.Status.Valid || patch.Status.Value == "") {
		return nil, invalid("status cannot be empty")
	}
	if err := checkLengths(
		optRule("hostname", patch.Hostname, maxHostnameLen),
		optRule("serial", patch.Serial, maxSerialLen),
		optRule("model", patch.Model, maxModelLen),
		optRule("location", patch.Location, maxLocationLen),
		optRule("status", patch.Status, maxStatusLen),
	); err != nil {
		return nil, err
	}

	asset, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	audit(s.audit, actor, policy.Asset, asset.ID, domain.AuditUpdate)
	return asset, nil
}

func (s *AssetService) Delete(ctx context.Context, actor *domain.Actor, id int64) error {
	if err := policy.Check(actor, policy.Asset, policy.Delete, policy.Target{ID: id}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("asset_id", id).Msg("asset deleted")
	audit(s.audit, actor, policy.Asset, id, domain.AuditDelete)
	return nil
}
