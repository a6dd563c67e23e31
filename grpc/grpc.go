package grpc

import (
	"crypto/tls"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// Conn is a connection to the gRPC endpoint of a cheqd node.
type Conn struct {
	cc *grpc.ClientConn
}

// Dial connects to server. TLS is used unless insecureConn is set.
func Dial(server string, insecureConn bool, extra ...grpc.DialOption) (*Conn, error) {
	if server == "" {
		return nil, errors.New("the cheqd GRPC server URL is not set")
	}
	dialOptions := append(getDialOptions(insecureConn), extra...)
	cc, err := grpc.Dial(server, dialOptions...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial %s", server)
	}
	return &Conn{cc: cc}, nil
}

// NewConn wraps an existing client connection.
func NewConn(cc *grpc.ClientConn) *Conn {
	return &Conn{cc: cc}
}

func (c *Conn) Close() error {
	return c.cc.Close()
}

func getDialOptions(insecureConn bool) (options []grpc.DialOption) {
	options = make([]grpc.DialOption, 0)

	var tpCredentials credentials.TransportCredentials

	if insecureConn {
		tpCredentials = insecure.NewCredentials()
	} else {
		tpCredentials = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	securityOpt := grpc.WithTransportCredentials(tpCredentials)
	options = append(options, securityOpt)

	return
}
