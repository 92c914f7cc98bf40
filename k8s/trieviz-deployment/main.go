package main

import (
	"encoding/json"
	"fmt"
	"os"

	appsv1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/apps/v1"
	corev1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/core/v1"
	metav1 "github.com/pulumi/pulumi-kubernetes/sdk/v3/go/kubernetes/meta/v1"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type SeedList struct {
	Words []string `json:"words"`
}

func main() {

	deploymentName := "trieviz"
	namespace := deploymentName
	version := os.Getenv("TRIEVIZ_VERSION")
	pulumi.Run(func(ctx *pulumi.Context) error {

		appLabels := pulumi.StringMap{
			"app":     pulumi.String(deploymentName),
			"version": pulumi.String(version),
		}

		md := &metav1.ObjectMetaArgs{
			Labels:    appLabels,
			Namespace: pulumi.StringPtr(namespace),
			Name:      pulumi.StringPtr(deploymentName),
		}

		dat := SeedList{
			Words: []string{
				"cat", "car", "card", "care", "carton",
				"dog", "dot", "dote",
			},
		}

		configData, err := json.Marshal(dat)
		if err != nil {
			return err
		}

		seedConfig, err := corev1.NewConfigMap(ctx, deploymentName, &corev1.ConfigMapArgs{
			Metadata: &metav1.ObjectMetaArgs{
				Labels:    appLabels,
				Name:      pulumi.StringPtr(deploymentName),
				Namespace: pulumi.String(namespace),
			},
			Data: pulumi.StringMap{"seed.json": pulumi.String(string(configData))},
		})
		if err != nil {
			return err
		}

		seedConfigName := seedConfig.Metadata.Name()

		svc, err := corev1.NewService(ctx, deploymentName, &corev1.ServiceArgs{
			Metadata: md,
			Spec: corev1.ServiceSpecArgs{
				Ports: corev1.ServicePortArray{
					corev1.ServicePortArgs{
						TargetPort: pulumi.Int(1337),
						Port:       pulumi.Int(80),
					},
				},
				Selector: appLabels,
			},
		},
		)
		if err != nil {
			return err
		}

		ctx.Export("svc name", svc.Metadata.Elem().Name())

		selector := &metav1.LabelSelectorArgs{
			MatchLabels: appLabels,
		}
		seedVolumeName := pulumi.String("trieviz-configs")

		// sessions live in process memory, so exactly one replica.
		deployment, err := appsv1.NewDeployment(ctx, deploymentName, &appsv1.DeploymentArgs{
			Metadata: md,
			Spec: appsv1.DeploymentSpecArgs{
				Replicas: pulumi.Int(1),
				Selector: selector,
				Template: &corev1.PodTemplateSpecArgs{
					Metadata: &metav1.ObjectMetaArgs{
						Labels: appLabels,
					},
					Spec: &corev1.PodSpecArgs{
						Containers: corev1.ContainerArray{
							corev1.ContainerArgs{
								Name: pulumi.String("trieviz"),
								Args: pulumi.StringArray{
									pulumi.String("/trieviz-server"),
									pulumi.String("-q"), pulumi.String("/etc/trieviz/seed.json"),
									pulumi.String("-r"),
								},
								ImagePullPolicy: pulumi.String("Always"),
								Image:           pulumi.String(fmt.Sprintf("registry.gitlab.com/pnathan/trieviz:%s", version)),
								Ports: corev1.ContainerPortArray{
									corev1.ContainerPortArgs{
										ContainerPort: pulumi.Int(1337),
									},
								},
								VolumeMounts: &corev1.VolumeMountArray{
									&corev1.VolumeMountArgs{
										Name: seedVolumeName,

										MountPath: pulumi.String("/etc/trieviz/"),
									},
								},
							},
						},
						Volumes: &corev1.VolumeArray{
							&corev1.VolumeArgs{
								Name: seedVolumeName,
								ConfigMap: &corev1.ConfigMapVolumeSourceArgs{
									Name: seedConfigName,
								},
							},
						},
					},
				},
			},
		})
		if err != nil {
			return err
		}

		ctx.Export("deployment name", deployment.Metadata.Elem().Name())

		return nil
	})
}
