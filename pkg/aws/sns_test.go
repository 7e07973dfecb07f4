package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNSAPI struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNSAPI) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	return &sns.PublishOutput{}, f.err
}

func TestSNSClient_PublishWithAttributes(t *testing.T) {
	api := &fakeSNSAPI{}
	c := NewSNSClientWithAPI(api)

	err := c.Publish(context.Background(), "arn:aws:sns:eu-west-1:1:orders", []byte(`{"order_id":1}`), map[string]string{"event": "order.created"})
	require.NoError(t, err)

	assert.Equal(t, "arn:aws:sns:eu-west-1:1:orders", *api.in.TopicArn)
	assert.Equal(t, `{"order_id":1}`, *api.in.Message)
	attr := api.in.MessageAttributes["event"]
	assert.Equal(t, "String", *attr.DataType)
	assert.Equal(t, "order.created", *attr.StringValue)
}

func TestSNSClient_PublishErrors(t *testing.T) {
	api := &fakeSNSAPI{err: errors.New("throttled")}
	c := NewSNSClientWithAPI(api)

	assert.Error(t, c.Publish(context.Background(), "", []byte("x"), nil))
	assert.Nil(t, api.in)

	err := c.Publish(context.Background(), "arn:topic", []byte("x"), nil)
	assert.ErrorContains(t, err, "throttled")
	assert.Empty(t, api.in.MessageAttributes)
}
