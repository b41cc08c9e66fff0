package app

import (
	"fmt"

	"github.com/allisson/sporeid/internal/announce"
	"github.com/allisson/sporeid/internal/database"
	deviceHTTP "github.com/allisson/sporeid/internal/device/http"
	deviceRepository "github.com/allisson/sporeid/internal/device/repository"
	deviceUseCase "github.com/allisson/sporeid/internal/device/usecase"
	"github.com/allisson/sporeid/internal/deviceid/service"
)

// Codec returns the device identifier codec configured with DEVICE_CODE_LENGTH.
func (c *Container) Codec() (*service.Codec, error) {
	var err error
	c.codecInit.Do(func() {
		c.codec, err = service.NewCodec(service.DefaultAlphabet, nil, c.config.DeviceCodeLength)
		if err != nil {
			c.initErrors["codec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["codec"]; exists {
		return nil, storedErr
	}
	return c.codec, nil
}

// DeviceRepository returns the device repository for the configured driver.
func (c *Container) DeviceRepository() (deviceUseCase.DeviceRepository, error) {
	var err error
	c.deviceRepositoryInit.Do(func() {
		c.deviceRepository, err = c.initDeviceRepository()
		if err != nil {
			c.initErrors["deviceRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceRepository"]; exists {
		return nil, storedErr
	}
	return c.deviceRepository, nil
}

// DeviceUseCase returns the device use case wrapped with metrics.
func (c *Container) DeviceUseCase() (deviceUseCase.DeviceUseCase, error) {
	var err error
	c.deviceUseCaseInit.Do(func() {
		c.deviceUseCase, err = c.initDeviceUseCase()
		if err != nil {
			c.initErrors["deviceUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceUseCase"]; exists {
		return nil, storedErr
	}
	return c.deviceUseCase, nil
}

// DeviceIDHandler returns a handler for the stateless identifier endpoints.
func (c *Container) DeviceIDHandler() (*deviceHTTP.DeviceIDHandler, error) {
	codec, err := c.Codec()
	if err != nil {
		return nil, fmt.Errorf("failed to get codec for device id handler: %w", err)
	}
	return deviceHTTP.NewDeviceIDHandler(codec, c.config.DeviceBrand, c.Logger()), nil
}

// DeviceHandler returns a handler for the registry endpoints.
func (c *Container) DeviceHandler() (*deviceHTTP.DeviceHandler, error) {
	useCase, err := c.DeviceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device use case for device handler: %w", err)
	}
	return deviceHTTP.NewDeviceHandler(useCase, c.Logger()), nil
}

// AnnounceListener returns the MQTT announcement listener.
func (c *Container) AnnounceListener() (*announce.Listener, error) {
	var err error
	c.announceListenerInit.Do(func() {
		c.announceListener, err = c.initAnnounceListener()
		if err != nil {
			c.initErrors["announceListener"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["announceListener"]; exists {
		return nil, storedErr
	}
	return c.announceListener, nil
}

func (c *Container) initDeviceRepository() (deviceUseCase.DeviceRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for device repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return deviceRepository.NewPostgreSQLDeviceRepository(db), nil
	case database.DriverMySQL:
		return deviceRepository.NewMySQLDeviceRepository(db), nil
	case database.DriverSQLite:
		return deviceRepository.NewSQLiteDeviceRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initDeviceUseCase() (deviceUseCase.DeviceUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for device use case: %w", err)
	}

	repo, err := c.DeviceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device repository for device use case: %w", err)
	}

	codec, err := c.Codec()
	if err != nil {
		return nil, fmt.Errorf("failed to get codec for device use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for device use case: %w", err)
	}

	useCase := deviceUseCase.NewDeviceUseCase(txManager, repo, codec, deviceUseCase.Options{
		DefaultBrand:     c.config.DeviceBrand,
		MaxAttempts:      c.config.DeviceProvisionMaxAttempts,
		BatchConcurrency: c.config.DeviceBatchConcurrency,
		BatchMaxSize:     c.config.DeviceBatchMaxSize,
	})

	return deviceUseCase.NewDeviceUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initAnnounceListener() (*announce.Listener, error) {
	useCase, err := c.DeviceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device use case for announce listener: %w", err)
	}

	if c.config.MQTTQoS < 0 || c.config.MQTTQoS > 2 {
		return nil, fmt.Errorf("invalid MQTT QoS: %d", c.config.MQTTQoS)
	}

	return announce.NewListener(announce.Config{
		BrokerURL:      c.config.MQTTBrokerURL,
		ClientID:       c.config.MQTTClientID,
		Username:       c.config.MQTTUsername,
		Password:       c.config.MQTTPassword,
		Topic:          c.config.MQTTAnnounceTopic,
		QoS:            byte(c.config.MQTTQoS),
		PayloadFormat:  c.config.MQTTPayloadFormat,
		ConnectTimeout: c.config.MQTTConnectTimeout,
		MaxRetries:     c.config.MQTTMaxRetries,
	}, useCase, c.Logger())
}
