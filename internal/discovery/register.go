package discovery

import (
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

// Register announces the gRPC endpoint listening on listenAddr to the Consul
// agent at consulAddr and returns a function that removes it again.
func Register(serviceName, listenAddr, consulAddr string) (func() error, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return nil, fmt.Errorf("parse listen address %q: %w", listenAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parse port %q: %w", portStr, err)
	}

	cfg := api.DefaultConfig()
	cfg.Address = consulAddr
	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	localIP, err := getOutboundIP()
	if err != nil {
		return nil, err
	}

	serviceID := ServiceID(serviceName, localIP, port)
	registration := &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    serviceName,
		Port:    port,
		Address: localIP,
		Tags:    []string{"techstore", "grpc"},
		Check: &api.AgentServiceCheck{
			TCP:                            net.JoinHostPort(localIP, portStr),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, err
	}
	zap.L().Info("service registered",
		zap.String("service", serviceName),
		zap.String("id", serviceID),
		zap.String("address", net.JoinHostPort(localIP, portStr)))

	return func() error {
		return client.Agent().ServiceDeregister(serviceID)
	}, nil
}

func ServiceID(name, ip string, port int) string {
	return fmt.Sprintf("%s-%s-%d", name, ip, port)
}

// getOutboundIP returns the address other hosts reach us on; no packet is sent.
func getOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}
