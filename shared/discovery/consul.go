package discovery

import (
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// Registration describes how the service announces itself to Consul.
type Registration struct {
	Name        string
	Address     string
	Port        int
	HealthCheck string
}

// ConsulRegistrar registers and deregisters a single service instance.
type ConsulRegistrar struct {
	client    *api.Client
	serviceID string
	logger    *zerolog.Logger
}

// NewConsulRegistrar connects to the Consul agent at addr.
func NewConsulRegistrar(addr string, logger *zerolog.Logger) (*ConsulRegistrar, error) {
	cfg := api.DefaultConfig()
	cfg.Address = addr

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return &ConsulRegistrar{client: client, logger: logger}, nil
}

// Register announces the instance with an HTTP health check.
func (r *ConsulRegistrar) Register(reg Registration) error {
	r.serviceID = ServiceID(reg)

	err := r.client.Agent().ServiceRegister(&api.AgentServiceRegistration{
		ID:      r.serviceID,
		Name:    reg.Name,
		Address: reg.Address,
		Port:    reg.Port,
		Check: &api.AgentServiceCheck{
			HTTP:                           reg.HealthCheck,
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to register service with consul: %w", err)
	}

	r.logger.Info().Str("service_id", r.serviceID).Msg("registered with consul")
	return nil
}

// Deregister removes the instance registered by Register.
func (r *ConsulRegistrar) Deregister() error {
	if r.serviceID == "" {
		return nil
	}

	return r.client.Agent().ServiceDeregister(r.serviceID)
}

// ServiceID derives a stable instance id from name, address and port.
func ServiceID(reg Registration) string {
	return reg.Name + "-" + net.JoinHostPort(reg.Address, strconv.Itoa(reg.Port))
}
