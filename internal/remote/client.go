// Package remote fetches module sources from a registry service over
// gRPC. The service contract ships as embedded proto source and is
// loaded through protoreflect at runtime, so no generated stubs are
// compiled in.
package remote

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const registryProtoFile = "triplang/registry.proto"

const registryProto = `syntax = "proto3";

package triplang;

service Registry {
  rpc GetModule(ModuleRequest) returns (ModuleReply);
}

message ModuleRequest {
  string name = 1;
}

message ModuleReply {
  string name = 1;
  string source = 2;
}
`

const fetchTimeout = 10 * time.Second

// Client is a registry connection.
type Client struct {
	conn   *grpc.ClientConn
	method *desc.MethodDescriptor
}

// Dial connects to a registry at target (host:port).
func Dial(target string) (*Client, error) {
	fd, err := loadRegistryDescriptor()
	if err != nil {
		return nil, err
	}
	svc := fd.FindService("triplang.Registry")
	if svc == nil {
		return nil, fmt.Errorf("registry proto: service triplang.Registry missing")
	}
	method := svc.FindMethodByName("GetModule")
	if method == nil {
		return nil, fmt.Errorf("registry proto: method GetModule missing")
	}
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, method: method}, nil
}

func loadRegistryDescriptor() (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: func(filename string) (io.ReadCloser, error) {
			if filename == registryProtoFile {
				return io.NopCloser(strings.NewReader(registryProto)), nil
			}
			return nil, fmt.Errorf("unknown proto file: %s", filename)
		},
	}
	fds, err := parser.ParseFiles(registryProtoFile)
	if err != nil {
		return nil, err
	}
	return fds[0], nil
}

// FetchModule retrieves the source text of the module named name.
func (c *Client) FetchModule(name string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	req := dynamic.NewMessage(c.method.GetInputType())
	req.SetFieldByName("name", name)
	resp := dynamic.NewMessage(c.method.GetOutputType())

	if err := c.conn.Invoke(ctx, "/triplang.Registry/GetModule", req, resp); err != nil {
		return "", fmt.Errorf("registry: %w", err)
	}
	source, ok := resp.GetFieldByName("source").(string)
	if !ok || source == "" {
		return "", fmt.Errorf("registry: module %s has no source", name)
	}
	return source, nil
}

func (c *Client) Close() error { return c.conn.Close() }
