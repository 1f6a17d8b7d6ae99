// Package runtime holds the service lifecycle plumbing cmd/beacon-node
// wires every long-running component through, independent of any single
// component's domain.
package runtime

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "registry")

// Service is anything a ServiceRegistry can manage: beacon-chain/blockchain,
// beacon-chain/sync and similar long-running components all implement it.
type Service interface {
	Start()
	Stop() error
	Status() error
}

// ServiceRegistry tracks every registered Service by its concrete type,
// starting and stopping them in registration order (reverse order on
// stop) and letting one service look another up by type rather than
// threading every dependency through constructor arguments by hand.
type ServiceRegistry struct {
	services     map[reflect.Type]Service
	serviceTypes []reflect.Type
}

// NewServiceRegistry constructs an empty ServiceRegistry.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[reflect.Type]Service),
	}
}

// StartAll starts every registered service, in registration order, each
// on its own goroutine.
func (s *ServiceRegistry) StartAll() {
	log.Debugf("starting %d services: %v", len(s.serviceTypes), s.serviceTypes)
	for _, kind := range s.serviceTypes {
		log.Debugf("starting service type %v", kind)
		go s.services[kind].Start()
	}
}

// StopAll stops every registered service in reverse registration order,
// logging (rather than aborting) on any individual failure so the rest
// still get a chance to shut down cleanly.
func (s *ServiceRegistry) StopAll() {
	for i := len(s.serviceTypes) - 1; i >= 0; i-- {
		kind := s.serviceTypes[i]
		if err := s.services[kind].Stop(); err != nil {
			log.WithError(err).Errorf("could not stop service: %v", kind)
		}
	}
}

// Statuses returns every registered service's current Status() result.
func (s *ServiceRegistry) Statuses() map[reflect.Type]error {
	m := make(map[reflect.Type]error, len(s.serviceTypes))
	for _, kind := range s.serviceTypes {
		m[kind] = s.services[kind].Status()
	}
	return m
}

// RegisterService adds service to the registry, keyed by its concrete
// type. Registering the same type twice is an error.
func (s *ServiceRegistry) RegisterService(service Service) error {
	kind := reflect.TypeOf(service)
	if _, exists := s.services[kind]; exists {
		return errors.Errorf("service already registered: %v", kind)
	}
	s.services[kind] = service
	s.serviceTypes = append(s.serviceTypes, kind)
	return nil
}

// FetchService sets *servicePtr to the registered service of that
// pointer's type. servicePtr must be a pointer to an interface or struct
// pointer type matching a RegisterService call.
func (s *ServiceRegistry) FetchService(servicePtr interface{}) error {
	v := reflect.ValueOf(servicePtr)
	if v.Kind() != reflect.Ptr {
		return errors.Errorf("input must be of pointer type, received %T", servicePtr)
	}
	element := v.Elem()
	running, ok := s.services[element.Type()]
	if !ok {
		return errors.Errorf("unknown service: %T", servicePtr)
	}
	element.Set(reflect.ValueOf(running))
	return nil
}
