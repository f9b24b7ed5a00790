package adapters

import (
	"context"
	"crypto/rand"

	extismSDK "github.com/extism/go-sdk"
	"github.com/tetratelabs/wazero"
)

// sdkCompiledPlugin adapts extismSDK.CompiledPlugin to the CompiledPlugin interface
type sdkCompiledPlugin struct {
	plugin *extismSDK.CompiledPlugin
}

// NewCompiledPluginAdapter creates a new adapter for extismSDK.CompiledPlugin
func NewCompiledPluginAdapter(plugin *extismSDK.CompiledPlugin) CompiledPlugin {
	if plugin == nil {
		return nil
	}
	return &sdkCompiledPlugin{plugin: plugin}
}

// NewPluginInstanceConfig returns the instance configuration used for every call: a fresh
// module configuration with WASI clocks and random source wired to the host.
func NewPluginInstanceConfig() extismSDK.PluginInstanceConfig {
	return extismSDK.PluginInstanceConfig{
		ModuleConfig: wazero.NewModuleConfig().
			WithSysWalltime().
			WithSysNanotime().
			WithRandSource(rand.Reader),
	}
}

// Instance creates a new instance of the plugin
func (a *sdkCompiledPlugin) Instance(
	ctx context.Context,
	config extismSDK.PluginInstanceConfig,
) (PluginInstance, error) {
	instance, err := a.plugin.Instance(ctx, config)
	if err != nil {
		return nil, err
	}
	return &sdkPluginAdapter{instance: instance}, nil
}

// Close releases resources associated with the plugin
func (a *sdkCompiledPlugin) Close(ctx context.Context) error {
	return a.plugin.Close(ctx)
}

// sdkPluginAdapter adapts the Extism plugin instance to the PluginInstance interface
type sdkPluginAdapter struct {
	instance *extismSDK.Plugin
}

func (a *sdkPluginAdapter) CallWithContext(
	ctx context.Context,
	name string,
	data []byte,
) (uint32, []byte, error) {
	return a.instance.CallWithContext(ctx, name, data)
}

func (a *sdkPluginAdapter) FunctionExists(name string) bool {
	return a.instance.FunctionExists(name)
}

func (a *sdkPluginAdapter) Close(ctx context.Context) error {
	return a.instance.Close(ctx)
}
