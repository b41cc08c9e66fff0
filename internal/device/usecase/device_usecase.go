package usecase

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/sporeid/internal/database"
	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	idDomain "github.com/allisson/sporeid/internal/deviceid/domain"
	"github.com/allisson/sporeid/internal/deviceid/service"
	apperrors "github.com/allisson/sporeid/internal/errors"
)

// Options tunes provisioning. Zero values fall back to the defaults below.
type Options struct {
	DefaultBrand     string
	MaxAttempts      int
	BatchConcurrency int
	BatchMaxSize     int
}

const (
	defaultBrand            = "MASH"
	defaultMaxAttempts      = 3
	defaultBatchConcurrency = 4
	defaultBatchMaxSize     = 500
)

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.DefaultBrand) == "" {
		o.DefaultBrand = defaultBrand
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.BatchConcurrency < 1 {
		o.BatchConcurrency = defaultBatchConcurrency
	}
	if o.BatchMaxSize < 1 {
		o.BatchMaxSize = defaultBatchMaxSize
	}
	return o
}

type deviceUseCase struct {
	txManager  database.TxManager
	deviceRepo DeviceRepository
	codec      IdentifierCodec
	opts       Options
	now        func() time.Time
}

// NewDeviceUseCase creates a DeviceUseCase.
func NewDeviceUseCase(
	txManager database.TxManager,
	deviceRepo DeviceRepository,
	codec IdentifierCodec,
	opts Options,
) DeviceUseCase {
	return &deviceUseCase{
		txManager:  txManager,
		deviceRepo: deviceRepo,
		codec:      codec,
		opts:       opts.withDefaults(),
		now:        time.Now,
	}
}

// buildInput applies the default brand and rejects fields that would not survive a
// parse of the resulting identifier.
func (d *deviceUseCase) buildInput(input *deviceDomain.ProvisionInput) (service.BuildInput, error) {
	brand := input.Brand
	if strings.TrimSpace(brand) == "" {
		brand = d.opts.DefaultBrand
	}

	buildInput := service.BuildInput{
		Brand:    brand,
		Model:    input.Model,
		Version:  input.Version,
		Location: input.Location,
		Year:     input.Year,
	}
	if err := d.codec.CheckRoundTrip(buildInput); err != nil {
		return service.BuildInput{}, err
	}
	return buildInput, nil
}

func (d *deviceUseCase) Provision(
	ctx context.Context,
	input *deviceDomain.ProvisionInput,
) (*deviceDomain.Device, error) {
	buildInput, err := d.buildInput(input)
	if err != nil {
		return nil, err
	}

	for range d.opts.MaxAttempts {
		_, components, err := d.codec.Build(buildInput)
		if err != nil {
			return nil, err
		}

		device := deviceDomain.NewDevice(components, d.now())
		err = d.deviceRepo.Create(ctx, device)
		if err == nil {
			return device, nil
		}
		if !apperrors.Is(err, deviceDomain.ErrDeviceAlreadyExists) {
			return nil, err
		}
	}

	return nil, deviceDomain.ErrProvisionExhausted
}

func (d *deviceUseCase) ProvisionBatch(
	ctx context.Context,
	input *deviceDomain.ProvisionInput,
	count int,
) ([]*deviceDomain.Device, error) {
	if count < 1 || count > d.opts.BatchMaxSize {
		return nil, deviceDomain.ErrInvalidBatchSize
	}

	buildInput, err := d.buildInput(input)
	if err != nil {
		return nil, err
	}

	candidates := make([]*idDomain.Components, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.BatchConcurrency)
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, components, err := d.codec.Build(buildInput)
			if err != nil {
				return err
			}
			candidates[i] = components
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	devices := make([]*deviceDomain.Device, 0, count)
	err = d.txManager.WithTx(ctx, func(ctx context.Context) error {
		taken := make(map[string]struct{}, count)
		for _, components := range candidates {
			device, err := d.createUnique(ctx, buildInput, components, taken)
			if err != nil {
				return err
			}
			devices = append(devices, device)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return devices, nil
}

// createUnique stores components, replacing them with a fresh build when the id is
// already used in this batch or in the registry. A failed insert aborts the whole
// transaction on PostgreSQL, so collisions are detected with a lookup first.
func (d *deviceUseCase) createUnique(
	ctx context.Context,
	buildInput service.BuildInput,
	components *idDomain.Components,
	taken map[string]struct{},
) (*deviceDomain.Device, error) {
	for attempt := range d.opts.MaxAttempts {
		if attempt > 0 {
			var err error
			if _, components, err = d.codec.Build(buildInput); err != nil {
				return nil, err
			}
		}

		if _, ok := taken[components.DeviceID]; ok {
			continue
		}

		_, err := d.deviceRepo.GetByDeviceID(ctx, components.DeviceID)
		if err == nil {
			continue
		}
		if !apperrors.Is(err, deviceDomain.ErrDeviceNotFound) {
			return nil, err
		}

		device := deviceDomain.NewDevice(components, d.now())
		if err := d.deviceRepo.Create(ctx, device); err != nil {
			return nil, err
		}
		taken[device.DeviceID] = struct{}{}
		return device, nil
	}

	return nil, deviceDomain.ErrProvisionExhausted
}

// checkDeviceID maps a structural parse failure to ErrMalformedDeviceID and a bad
// check symbol to ErrChecksumMismatch.
func (d *deviceUseCase) checkDeviceID(deviceID string) error {
	components := d.codec.Parse(deviceID)
	if components.HasError() {
		return apperrors.Wrap(deviceDomain.ErrMalformedDeviceID, components.Error)
	}
	if !components.ValidChecksum {
		return deviceDomain.ErrChecksumMismatch
	}
	return nil
}

func (d *deviceUseCase) Get(ctx context.Context, deviceID string) (*deviceDomain.Device, error) {
	if err := d.checkDeviceID(deviceID); err != nil {
		return nil, err
	}
	return d.deviceRepo.GetByDeviceID(ctx, deviceID)
}

func (d *deviceUseCase) List(ctx context.Context, offset, limit int) ([]*deviceDomain.Device, error) {
	return d.deviceRepo.List(ctx, offset, limit)
}

func (d *deviceUseCase) Revoke(ctx context.Context, deviceID string) (*deviceDomain.Device, error) {
	if err := d.checkDeviceID(deviceID); err != nil {
		return nil, err
	}

	var device *deviceDomain.Device
	err := d.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		device, err = d.deviceRepo.GetByDeviceID(ctx, deviceID)
		if err != nil {
			return err
		}
		if device.IsRevoked() {
			return nil
		}

		revokedAt := d.now().UTC()
		if err := d.deviceRepo.Revoke(ctx, deviceID, revokedAt); err != nil {
			return err
		}
		device.Status = deviceDomain.StatusRevoked
		device.RevokedAt = &revokedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	return device, nil
}

func (d *deviceUseCase) Announce(
	ctx context.Context,
	input *deviceDomain.AnnounceInput,
) (*deviceDomain.Device, error) {
	if err := d.checkDeviceID(input.DeviceID); err != nil {
		return nil, err
	}

	device, err := d.deviceRepo.GetByDeviceID(ctx, input.DeviceID)
	if err != nil {
		return nil, err
	}
	if device.IsRevoked() {
		return nil, deviceDomain.ErrDeviceRevoked
	}

	seenAt := input.SeenAt
	if seenAt.IsZero() {
		seenAt = d.now()
	}
	seenAt = seenAt.UTC()

	if err := d.deviceRepo.Touch(ctx, input.DeviceID, seenAt); err != nil {
		return nil, err
	}
	device.LastSeenAt = &seenAt

	return device, nil
}
