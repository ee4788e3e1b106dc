package platform

import (
	"github.com/aretw0/encyclopedia/pkg/core"
	"github.com/aretw0/encyclopedia/pkg/markdown"
)

// New wires a ready to use Service.
//
//	svc, err := encyclopedia.New("./entries", encyclopedia.WithAdapter("sqlite"))
//
// The uri argument is adapter-specific (see Init).
func New(uri string, opts ...Option) (*core.Service, error) {
	o := buildOptions(opts)

	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	renderer := o.renderer
	if renderer == nil {
		renderer = markdown.Default()
	}

	serviceOpts := append([]core.ServiceOption{core.WithServiceLogger(o.logger)}, o.serviceOpts...)
	return core.NewService(repo, renderer, serviceOpts...), nil
}
